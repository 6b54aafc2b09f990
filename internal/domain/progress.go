package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Mastery thresholds and weights.
const (
	MasteryWindow          = 5
	MasteryErrorPenalty    = 3
	MasteryMasteredAt      = 80
	MasteryReviewingAt     = 50
	NightOwlHourUTC        = 20
	MathChampRatio         = 0.8
	OnFireStreak           = 3
	XPPerLevelDivisor      = 50
	MinutesPerRevision     = 5
	MinutesPerQuiz         = 3
	activityDateLayout     = "2006-01-02"
	activityWeekWindowDays = 7
)

type MasteryStatus string

const (
	MasteryStatusMastered  MasteryStatus = "MASTERED"
	MasteryStatusReviewing MasteryStatus = "REVIEWING"
	MasteryStatusLearning  MasteryStatus = "LEARNING"
)

var topicSuffixes = []string{" (Remediation)", " (Correction)", " (Remédiation)", " (Révision)"}

// NormalizeTopic strips remediation/revision markers so that a lesson and its
// correction quizzes aggregate under one topic.
func NormalizeTopic(topic string) string {
	for _, suffix := range topicSuffixes {
		topic = strings.ReplaceAll(topic, suffix, "")
	}
	return strings.TrimSpace(topic)
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextStreak returns the streak after an activity at now. Days are UTC.
func NextStreak(current int, lastActivity *time.Time, now time.Time) int {
	if lastActivity == nil {
		return 1
	}
	today := utcDay(now)
	last := utcDay(*lastActivity)
	switch {
	case last.Equal(today):
		if current < 1 {
			return 1
		}
		return current
	case last.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

// LevelForXP is 1 + floor(sqrt(xp/50)).
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return 1 + int(math.Floor(math.Sqrt(float64(xp)/XPPerLevelDivisor)))
}

// ScoreOutcome summarises what one submission changed on a learner profile.
type ScoreOutcome struct {
	XPGained  int
	LevelUp   bool
	NewBadges []string
}

// ApplyScore updates streak, XP, level and last activity on the profile.
// The level never decreases.
func (p *LearnerProfile) ApplyScore(score int, now time.Time) ScoreOutcome {
	p.StreakCurrent = NextStreak(p.StreakCurrent, p.LastActivity, now)
	if p.StreakCurrent > p.StreakMax {
		p.StreakMax = p.StreakCurrent
	}

	outcome := ScoreOutcome{}
	if score > 0 {
		p.XP += score
		outcome.XPGained = score
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if lvl := LevelForXP(p.XP); lvl > p.Level {
		p.Level = lvl
		outcome.LevelUp = true
	}

	ts := now.UTC()
	p.LastActivity = &ts
	return outcome
}

// EligibleBadges lists every badge the submission qualifies for, in award order.
func EligibleBadges(s *Score, streak int, now time.Time) []string {
	badges := []string{BadgeFirstSteps}
	if now.UTC().Hour() >= NightOwlHourUTC {
		badges = append(badges, BadgeNightOwl)
	}
	if strings.Contains(strings.ToLower(s.Topic), "math") && s.TotalQuestions > 0 && s.Ratio() >= MathChampRatio {
		badges = append(badges, BadgeMathChamp)
	}
	if streak >= OnFireStreak {
		badges = append(badges, BadgeOnFire)
	}
	return badges
}

// NewBadges filters eligible codes down to those not already held.
func NewBadges(eligible []string, existing []string) []string {
	held := make(map[string]struct{}, len(existing))
	for _, code := range existing {
		held[code] = struct{}{}
	}
	var fresh []string
	for _, code := range eligible {
		if _, ok := held[code]; ok {
			continue
		}
		held[code] = struct{}{}
		fresh = append(fresh, code)
	}
	return fresh
}

// TopicMastery is the per-topic entry of the mastery dashboard.
type TopicMastery struct {
	Topic         string        `json:"topic"`
	MasteryScore  int           `json:"mastery_score"`
	QuizzesCount  int           `json:"quizzes_count"`
	PendingErrors int           `json:"pending_errors"`
	Status        MasteryStatus `json:"status"`
	LastActivity  time.Time     `json:"last_activity"`
	Synthesis     *string       `json:"synthesis"`
	StudyTips     []string      `json:"study_tips"`
}

// MasteryStatusFor maps a 0..100 score to its status.
func MasteryStatusFor(score float64) MasteryStatus {
	switch {
	case score >= MasteryMasteredAt:
		return MasteryStatusMastered
	case score >= MasteryReviewingAt:
		return MasteryStatusReviewing
	default:
		return MasteryStatusLearning
	}
}

// WeightedRecentScore averages the percentages of the last MasteryWindow
// attempts (sorted oldest first) with weights 1..n.
func WeightedRecentScore(scores []Score) float64 {
	if len(scores) > MasteryWindow {
		scores = scores[len(scores)-MasteryWindow:]
	}
	var weightedSum, totalWeight float64
	for i := range scores {
		weight := float64(i + 1)
		pct := scores[i].Ratio() * 100
		weightedSum += pct * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// ComputeMastery groups scores by normalized topic and applies the pending
// error penalty. Revision lookups are keyed by normalized topic. The result is
// sorted by last activity, most recent first.
func ComputeMastery(scores []Score, pending []RemediationItem, latestRevisions map[string]*Revision) []TopicMastery {
	byTopic := make(map[string][]Score)
	for _, s := range scores {
		if s.Topic == "" {
			continue
		}
		key := NormalizeTopic(s.Topic)
		byTopic[key] = append(byTopic[key], s)
	}

	errorCounts := make(map[string]int)
	for _, item := range pending {
		if item.Topic == "" {
			continue
		}
		errorCounts[NormalizeTopic(item.Topic)]++
	}

	result := make([]TopicMastery, 0, len(byTopic))
	for topic, topicScores := range byTopic {
		sort.SliceStable(topicScores, func(i, j int) bool {
			return topicScores[i].CreatedAt.Before(topicScores[j].CreatedAt)
		})

		pendingErrors := errorCounts[topic]
		final := WeightedRecentScore(topicScores) - float64(pendingErrors*MasteryErrorPenalty)
		final = math.Max(0, math.Min(100, final))

		entry := TopicMastery{
			Topic:         topic,
			MasteryScore:  int(final),
			QuizzesCount:  len(topicScores),
			PendingErrors: pendingErrors,
			Status:        MasteryStatusFor(final),
			LastActivity:  topicScores[len(topicScores)-1].CreatedAt,
		}
		if rev, ok := latestRevisions[topic]; ok && rev != nil {
			if rev.Synthesis != "" {
				synthesis := rev.Synthesis
				entry.Synthesis = &synthesis
			}
			entry.StudyTips = rev.StudyTips
		}
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastActivity.After(result[j].LastActivity)
	})
	return result
}

// ActivityItem is one revision or quiz on the activity timeline.
type ActivityItem struct {
	Type            string         `json:"type"`
	ID              string         `json:"id"`
	RevisionID      string         `json:"revision_id,omitempty"`
	Topic           string         `json:"topic"`
	Subject         string         `json:"subject,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	Minutes         int            `json:"minutes"`
	Details         string         `json:"details"`
	PendingErrors   *int           `json:"pending_errors,omitempty"`
	CurrentSeries   int            `json:"current_series,omitempty"`
	TotalSeries     int            `json:"total_series,omitempty"`
	CompletedSeries *int           `json:"completed_series,omitempty"`
	Status          RevisionStatus `json:"status,omitempty"`
}

type ActivityDay struct {
	Date         string         `json:"date"`
	TotalMinutes int            `json:"total_minutes"`
	Items        []ActivityItem `json:"items"`
}

type ActivitySummary struct {
	TodayMinutes   int `json:"today_minutes"`
	WeekMinutes    int `json:"week_minutes"`
	TotalQuizzes   int `json:"total_quizzes"`
	TotalRevisions int `json:"total_revisions"`
}

type ActivityReport struct {
	Summary ActivitySummary `json:"summary"`
	History []ActivityDay   `json:"history"`
}

// BuildActivity estimates study time from revisions and quiz scores and
// groups it per UTC day, most recent day first.
func BuildActivity(revisions []Revision, scores []Score, pendingByRevision map[string]int, now time.Time) ActivityReport {
	items := make([]ActivityItem, 0, len(revisions)+len(scores))
	for _, r := range revisions {
		pendingErrors := pendingByRevision[r.ID]
		completed := r.CompletedSeries
		items = append(items, ActivityItem{
			Type:            "REVISION",
			ID:              r.ID,
			Topic:           r.Topic,
			Subject:         r.Subject,
			CreatedAt:       r.CreatedAt,
			Minutes:         MinutesPerRevision,
			Details:         "Révision de cours",
			PendingErrors:   &pendingErrors,
			CurrentSeries:   r.CurrentSeries,
			TotalSeries:     r.TotalSeries,
			CompletedSeries: &completed,
			Status:          r.Status,
		})
	}
	for _, s := range scores {
		items = append(items, ActivityItem{
			Type:       "QUIZ",
			ID:         s.ID,
			RevisionID: s.RevisionID,
			Topic:      s.Topic,
			CreatedAt:  s.CreatedAt,
			Minutes:    MinutesPerQuiz,
			Details:    quizDetails(s),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	report := ActivityReport{
		Summary: ActivitySummary{
			TotalQuizzes:   len(scores),
			TotalRevisions: len(revisions),
		},
		History: []ActivityDay{},
	}
	today := now.UTC().Format(activityDateLayout)
	weekAgo := now.UTC().AddDate(0, 0, -activityWeekWindowDays)
	dayIndex := make(map[string]int)

	for _, item := range items {
		key := item.CreatedAt.UTC().Format(activityDateLayout)
		idx, ok := dayIndex[key]
		if !ok {
			report.History = append(report.History, ActivityDay{Date: key, Items: []ActivityItem{}})
			idx = len(report.History) - 1
			dayIndex[key] = idx
		}
		report.History[idx].Items = append(report.History[idx].Items, item)
		report.History[idx].TotalMinutes += item.Minutes

		if key == today {
			report.Summary.TodayMinutes += item.Minutes
		}
		if !item.CreatedAt.Before(weekAgo) {
			report.Summary.WeekMinutes += item.Minutes
		}
	}
	return report
}

func quizDetails(s Score) string {
	return fmt.Sprintf("Quiz (%d/%d)", s.Score, s.TotalQuestions)
}
