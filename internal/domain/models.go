package domain

import (
	"strings"
	"time"
)

// QuestionKind discriminates the supported question variants.
type QuestionKind string

const (
	MultipleChoice QuestionKind = "multiple-choice"
	TrueFalse      QuestionKind = "true-false"
	Identification QuestionKind = "identification"
)

// Question is one immutable quiz question. Exactly one of the Correct*
// fields is meaningful, selected by Kind.
type Question struct {
	ID           string       `json:"id"`
	Kind         QuestionKind `json:"kind"`
	Prompt       string       `json:"prompt"`
	Options      []string     `json:"options,omitempty"`
	CorrectIndex int          `json:"correctIndex,omitempty"`
	CorrectBool  bool         `json:"correctBool,omitempty"`
	CorrectText  string       `json:"correctText,omitempty"`
	Explanation  string       `json:"explanation,omitempty"`
	Points       int          `json:"points"` // defaults to 1 if zero
}

// Answer is a tagged union of the per-kind answer values.
type Answer struct {
	Kind  QuestionKind `json:"kind"`
	Index int          `json:"index,omitempty"`
	Bool  bool         `json:"bool,omitempty"`
	Text  string       `json:"text,omitempty"`
}

// Check reports whether ans matches the question's correct value. A nil
// answer (no selection before the timer elapsed) is always incorrect.
// Text answers are trimmed and case-folded before comparison.
func (q Question) Check(ans *Answer) bool {
	if ans == nil || ans.Kind != q.Kind {
		return false
	}
	switch q.Kind {
	case MultipleChoice:
		return ans.Index == q.CorrectIndex
	case TrueFalse:
		return ans.Bool == q.CorrectBool
	case Identification:
		return strings.EqualFold(strings.TrimSpace(ans.Text), strings.TrimSpace(q.CorrectText))
	}
	return false
}

// PointValue returns the points awarded for a correct answer.
func (q Question) PointValue() int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}

// CorrectAnswer returns the question's correct value in Answer form,
// for transcript entries and reveal payloads.
func (q Question) CorrectAnswer() Answer {
	ans := Answer{Kind: q.Kind}
	switch q.Kind {
	case MultipleChoice:
		ans.Index = q.CorrectIndex
	case TrueFalse:
		ans.Bool = q.CorrectBool
	case Identification:
		ans.Text = q.CorrectText
	}
	return ans
}

// Activity is one scored quiz tied to a lesson. Completing it marks
// LessonID complete and unlocks NextLessonID.
type Activity struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	LessonID     string     `json:"lessonId"`
	NextLessonID string     `json:"nextLessonId,omitempty"`
	Questions    []Question `json:"questions"`
}

// TotalPoints is the maximum attainable score for the activity.
func (a Activity) TotalPoints() int {
	total := 0
	for _, q := range a.Questions {
		total += q.PointValue()
	}
	return total
}

// User is the account record stored under users/{username}. The username
// doubles as the primary key; passwords are stored in plaintext, matching
// the store's trust model.
type User struct {
	Username    string    `json:"username"`
	Password    string    `json:"password,omitempty"`
	TotalPoints int       `json:"totalPoints"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CompletionRecord tracks one user's state for one lesson.
type CompletionRecord struct {
	Completed bool `json:"completed"`
	Unlocked  bool `json:"unlocked"`
	Score     int  `json:"score"`
	Total     int  `json:"total"`
}

// QuizResult is the durable outcome of one activity run.
type QuizResult struct {
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptEntry records one answered (or timed-out) question.
type TranscriptEntry struct {
	QuestionID string  `json:"questionId"`
	Selected   *Answer `json:"selected"` // nil when the timer elapsed unanswered
	Correct    Answer  `json:"correct"`
	IsCorrect  bool    `json:"isCorrect"`
	Awarded    int     `json:"awarded"`
}

// LeaderboardEntry is the canonical normalized form of one score record.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Board is a ranked leaderboard snapshot.
type Board struct {
	ActivityID string             `json:"activityId,omitempty"`
	Entries    []LeaderboardEntry `json:"entries"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// SessionContext carries the authenticated identity through quiz and
// progress operations instead of an ambient current-user slot.
type SessionContext struct {
	Username string
}
