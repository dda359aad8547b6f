package models

import (
	"fmt"
	"time"
)

// SessionKind is the type of test a session runs.
type SessionKind string

const (
	Sprint   SessionKind = "SPRINT"
	Marathon SessionKind = "MARATHON"
	Mock     SessionKind = "MOCK"
	Daily    SessionKind = "DAILY"
)

// Question counts and time limits per session kind.
const (
	SprintQuestions   = 20
	MarathonQuestions = 100
	DailyQuestions    = 20
	SprintMinutes     = 30
	MarathonMinutes   = 120
	MockTestCount     = 20
)

// TestSession represents one test taken by a user.
type TestSession struct {
	ID              string      `json:"id"`
	Kind            SessionKind `json:"kind"`
	Topic           Topic       `json:"topic,omitempty"`
	MockID          string      `json:"mockId,omitempty"`
	Questions       []Question  `json:"questions"`
	UserAnswers     []*int      `json:"userAnswers"`
	StartTime       time.Time   `json:"startTime"`
	DurationMinutes int         `json:"durationMinutes"`
	EndTime         *time.Time  `json:"endTime,omitempty"`
	Score           *int        `json:"score,omitempty"`
	ClosingQuote    string      `json:"closingQuote,omitempty"`
	LastActivity    time.Time   `json:"lastActivity"`
}

// Finished reports whether the session has been finalised.
func (s *TestSession) Finished() bool {
	return s.EndTime != nil
}

// SessionCreateRequest is the body of POST /api/sessions.
type SessionCreateRequest struct {
	Kind   SessionKind `json:"kind" validate:"required,oneof=SPRINT MARATHON MOCK DAILY"`
	Topic  string      `json:"topic" validate:"required_if=Kind SPRINT"`
	MockID string      `json:"mockId" validate:"required_if=Kind MOCK"`
}

// AnswerRequest is the body of POST /api/sessions/{id}/answer.
type AnswerRequest struct {
	Index  int  `json:"index" validate:"min=0"`
	Option *int `json:"option" validate:"required,min=0,max=3"`
}

// TopicStats is the per-topic breakdown of a finished session.
type TopicStats struct {
	Topic   Topic `json:"topic"`
	Total   int   `json:"total"`
	Correct int   `json:"correct"`
}

// SessionResult is the analysis shown after a session is finished.
type SessionResult struct {
	SessionID    string       `json:"sessionId"`
	Score        int          `json:"score"`
	Total        int          `json:"total"`
	Percentage   float64      `json:"percentage"`
	Topics       []TopicStats `json:"topics"`
	FocusAreas   []Topic      `json:"focusAreas"`
	Summary      string       `json:"summary"`
	ClosingQuote string       `json:"closingQuote"`
	Duration     string       `json:"duration"`
}

// MockTestMeta describes one entry in the mock test library.
type MockTestMeta struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	QuestionCount   int    `json:"questionCount"`
	DurationMinutes int    `json:"durationMinutes"`
}

// MockTests builds the fixed mock library.
func MockTests() []MockTestMeta {
	mocks := make([]MockTestMeta, MockTestCount)
	for i := range mocks {
		mocks[i] = MockTestMeta{
			ID:              fmt.Sprintf("mock-%d", i+1),
			Title:           fmt.Sprintf("Full Mock Test #%d", i+1),
			Description:     "Comprehensive 100-question marathon with 30-40-30 Difficulty Mix.",
			QuestionCount:   MarathonQuestions,
			DurationMinutes: MarathonMinutes,
		}
	}
	return mocks
}

// FindMockTest looks up a mock by id.
func FindMockTest(id string) (MockTestMeta, bool) {
	for _, m := range MockTests() {
		if m.ID == id {
			return m, true
		}
	}
	return MockTestMeta{}, false
}

// LeaderboardEntry is a row of the (static) leaderboard.
type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Time  string `json:"time"`
}

// LeaderboardResponse wraps the leaderboard rows.
type LeaderboardResponse struct {
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
	TotalPlayers int                `json:"totalPlayers"`
}
