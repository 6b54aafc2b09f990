package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RevisionStatus tracks a lesson through its quiz series.
type RevisionStatus string

const (
	RevisionStatusNew        RevisionStatus = "NEW"
	RevisionStatusInProgress RevisionStatus = "IN_PROGRESS"
	RevisionStatusCompleted  RevisionStatus = "COMPLETED"
)

// Revision is a stored lesson together with its current quiz and series state.
type Revision struct {
	ID              string
	UserID          string
	LearnerID       string
	Topic           string
	Subject         string
	TextContent     string
	Synthesis       string
	StudyTips       []string
	QuizData        *Quiz
	ProgressState   *ProgressState
	Status          RevisionStatus
	CurrentSeries   int
	CompletedSeries int
	TotalSeries     int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasNextSeries reports whether another series can be generated.
func (r *Revision) HasNextSeries() bool {
	return r.CurrentSeries < r.TotalSeries
}

// CompleteCurrentSeries marks the running series as finished after a score
// submission and clears the saved progress.
func (r *Revision) CompleteCurrentSeries() {
	r.CompleteSeries(r.CurrentSeries)
}

// CompleteSeries records series as finished. A series beyond the current one
// (or none) counts as the current series.
func (r *Revision) CompleteSeries(series int) {
	if series <= 0 || series > r.CurrentSeries {
		series = r.CurrentSeries
	}
	if series > r.CompletedSeries {
		r.CompletedSeries = series
	}
	if r.CompletedSeries >= r.TotalSeries {
		r.Status = RevisionStatusCompleted
	}
	r.ProgressState = nil
}

// FlexInt decodes integers that language models sometimes quote as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		n = int(fl)
	}
	*f = FlexInt(n)
	return nil
}

// Question is one multiple-choice item. CorrectAnswer indexes Options.
type Question struct {
	ID            FlexInt  `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer FlexInt  `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Valid reports whether the question can be rendered and graded.
func (q Question) Valid() bool {
	return strings.TrimSpace(q.Question) != "" &&
		len(q.Options) >= 2 &&
		int(q.CorrectAnswer) >= 0 && int(q.CorrectAnswer) < len(q.Options)
}

// Quiz is the payload produced by the generator and stored on a revision.
type Quiz struct {
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
}

// ProgressState is the resumable position inside a quiz series.
type ProgressState struct {
	CurrentIndex int             `json:"current_index"`
	Answers      json.RawMessage `json:"answers"`
	Score        int             `json:"score"`
	Timestamp    time.Time       `json:"timestamp"`
}

// SeriesInfo locates the current quiz inside a long lesson.
type SeriesInfo struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}
