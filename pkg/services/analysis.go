package services

import (
	"math"
	"time"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
)

// FocusThreshold is the accuracy below which a topic is flagged for more practice.
const FocusThreshold = 0.6

// Analyze breaks a finished session down by topic.
func Analyze(session *models.TestSession) *models.SessionResult {
	stats := make(map[models.Topic]*models.TopicStats)
	order := make([]models.Topic, 0)
	score := 0
	for i, q := range session.Questions {
		st, ok := stats[q.Topic]
		if !ok {
			st = &models.TopicStats{Topic: q.Topic}
			stats[q.Topic] = st
			order = append(order, q.Topic)
		}
		st.Total++
		if a := session.UserAnswers[i]; a != nil && *a == q.CorrectOptionIndex {
			st.Correct++
			score++
		}
	}

	result := &models.SessionResult{
		SessionID:    session.ID,
		Score:        score,
		Total:        len(session.Questions),
		Topics:       make([]models.TopicStats, 0, len(order)),
		FocusAreas:   make([]models.Topic, 0),
		ClosingQuote: session.ClosingQuote,
	}
	for _, topic := range order {
		st := stats[topic]
		result.Topics = append(result.Topics, *st)
		if float64(st.Correct)/float64(st.Total) < FocusThreshold {
			result.FocusAreas = append(result.FocusAreas, topic)
		}
	}
	if result.Total > 0 {
		result.Percentage = math.Round(float64(score)/float64(result.Total)*1000) / 10
	}
	result.Summary = Summary(result.Percentage)
	if session.EndTime != nil {
		result.Duration = session.EndTime.Sub(session.StartTime).Round(time.Second).String()
	}
	return result
}

// Summary is the one-line verdict for a percentage score.
func Summary(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Excellent work! You are clearly prepared for the role."
	case percentage >= 75:
		return "Solid performance. A few more practice sessions will make you a top contender."
	case percentage >= 50:
		return "Fair effort. Consistency in weak topics will significantly boost your score."
	default:
		return "Keep practicing. Focus on understanding core concepts to improve accuracy."
	}
}
