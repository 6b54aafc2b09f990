package domain

import (
	"strings"
	"unicode/utf8"
)

// Quiz sizing constants. Lengths are counted in runes.
const (
	QuestionDensity      = 400
	MinQuestions         = 3
	MaxQuestions         = 15
	ShortLessonLength    = 600
	ShortLessonQuestions = 3
	MediumLessonLength   = 1200
	MediumLessonQuestion = 5
	SeriesChunkLength    = 300
	SeriesChunksPerPart  = 15
	RemediationPoolSize  = 20
	RemediationSourceCap = 3000
	DefaultDifficulty    = "medium"
	DefaultLessonTitle   = "Sans titre"
	DefaultLessonSubject = "Général"
)

// QuizPlan is the sizing decision for a lesson.
type QuizPlan struct {
	NumQuestions int
	TotalSeries  int
}

// PlanQuiz sizes a quiz from the lesson length.
func PlanQuiz(text string) QuizPlan {
	length := utf8.RuneCountInString(text)

	target := length / QuestionDensity
	if target < MinQuestions {
		target = MinQuestions
	}
	if target > MaxQuestions {
		target = MaxQuestions
	}
	switch {
	case length < ShortLessonLength:
		target = ShortLessonQuestions
	case length < MediumLessonLength:
		target = MediumLessonQuestion
	}

	return QuizPlan{
		NumQuestions: target,
		TotalSeries:  (length/SeriesChunkLength)/SeriesChunksPerPart + 1,
	}
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var mathKeywords = []string{
	"équation", "equation", "calcul", "calculate", "résoudre", "solve",
	"formule", "formula", "mathématique", "mathematics", "algèbre", "algebra",
	"géométrie", "geometry", "dérivée", "derivative", "intégrale", "integral",
	"∫", "∑", "∏", "√", "π", "θ", "∆", "∂",
}

// ContainsMathKeyword reports whether extracted lesson text looks mathematical.
func ContainsMathKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range mathKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// LessonAnalysis is what the vision model extracts from one batch of pages.
type LessonAnalysis struct {
	Title         string   `json:"title"`
	Subject       string   `json:"subject"`
	RawText       string   `json:"raw_text"`
	Synthesis     string   `json:"synthesis"`
	StudyTips     []string `json:"study_tips"`
	IsMathContent bool     `json:"is_math_content"`
}

// TokenUsage mirrors the usage block reported by chat completion APIs.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
