package quizgen

import (
	"fmt"
	"strings"

	"reviflow/internal/domain"
)

const quizSystemPrompt = `You are an experienced French teacher.
Write a multiple-choice quiz (QCM) for students from the lesson text you are given.

Rules:
1. Language: French.
2. Topic: name the main subject of the lesson.
3. Exactly %d questions, difficulty: %s.
4. Each question has 4 options and exactly one correct option.
5. "correct_answer" is the 0-based index of the correct option.

Answer with one raw JSON object, without markdown fences, introduction or conclusion:
{
  "topic": "string",
  "questions": [
    {
      "id": 1,
      "question": "Question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": 0,
      "explanation": "Short explanation."
    }
  ]
}`

const seriesHintPrompt = `

CONTEXT: the lesson is long and is split into %d parts. This is part %d (Série %d sur %d, porte sur une partie différente).
Only ask about the section of the text that roughly matches part %d/%d.`

const remediationSystemPrompt = `You are an expert tutor in: %s.
Goal: write a remedial quiz that helps a student understand concepts they got wrong.

You receive the questions the student failed, with their wrong answer and the correct answer.

Steps:
1. Read the REFERENCE LESSON TEXT when it is provided, it defines the curriculum.
2. Find the concept behind each failed question.
3. Write a NEW multiple-choice question on that same concept, phrased differently or with another example.
4. Write exactly one new question per failed question.
5. Set "topic" to "%s (Correction)".
6. Questions are about the subject matter (%s), never about remediation, study methods or translation.
7. Language: French.
8. Give a clear "explanation" of the correct answer.

Answer with one raw JSON object with this exact structure:
{
  "topic": "string",
  "questions": [
    {
      "id": 1,
      "question": "New question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": 0,
      "explanation": "Why this answer is right."
    }
  ]
}`

const lessonSystemPrompt = `You analyze lesson material for French students.
From the photographed pages, extract:

1. "title": a short title for the lesson (10 words at most)
2. "subject": the school subject (for example "Histoire", "Sciences", "Français", "Mathématiques")
3. "raw_text": the full text of the pages, keeping its structure
4. "synthesis": a student-friendly summary of the key ideas (3 to 5 bullet points)
5. "study_tips": three short tips to learn this lesson

MATH SAFETY RULE: when the material contains math problems, equations or exercises:
- copy the statements and equations as they are in raw_text
- in synthesis, only EXPLAIN the concepts and NEVER solve the problems
- set is_math_content to true

Answer with one JSON object with this exact structure:
{
  "title": "string",
  "subject": "string",
  "raw_text": "string",
  "synthesis": "string",
  "study_tips": ["string", "string", "string"],
  "is_math_content": false
}

Always answer in French.`

const lessonUserPrompt = "Analyze these lesson pages and extract their structured content."

func buildQuizPrompt(numQuestions int, difficulty string, seriesIndex, totalSeries int) string {
	prompt := fmt.Sprintf(quizSystemPrompt, numQuestions, difficulty)
	if totalSeries > 1 {
		prompt += fmt.Sprintf(seriesHintPrompt, totalSeries, seriesIndex, seriesIndex, totalSeries, seriesIndex, totalSeries)
	}
	return prompt
}

// remediationTopics lists the distinct lesson topics behind the failed questions.
func remediationTopics(items []*domain.RemediationItem) string {
	seen := make(map[string]bool)
	var topics []string
	for _, item := range items {
		topic := domain.NormalizeTopic(item.Topic)
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true
		topics = append(topics, topic)
	}
	if len(topics) == 0 {
		return domain.DefaultLessonSubject
	}
	return strings.Join(topics, ", ")
}

func buildRemediationPrompts(items []*domain.RemediationItem, sourceText string) (string, string) {
	topics := remediationTopics(items)
	system := fmt.Sprintf(remediationSystemPrompt, topics, topics, topics)

	var user strings.Builder
	if sourceText != "" {
		user.WriteString("REFERENCE LESSON TEXT:\n")
		user.WriteString(domain.TruncateRunes(sourceText, domain.RemediationSourceCap))
		user.WriteString("\n\n")
	}
	fmt.Fprintf(&user, "The student made the following mistakes (write exactly %d questions):\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&user, "- Failed question: %s\n  Student's wrong answer: %s\n  Correct answer: %s\n  Subject context: %s\n",
			item.Question, item.WrongAnswer, item.CorrectAnswer, item.OriginalContent)
	}
	return system, user.String()
}
