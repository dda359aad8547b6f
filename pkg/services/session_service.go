package services

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/samples"
)

const DefaultSessionTTL = 24 * time.Hour

// QuestionSupplier hands out question batches for new sessions.
type QuestionSupplier interface {
	Supply(ctx context.Context, sel models.Selector, count int) []models.Question
}

// SessionService keeps test sessions in process memory. A session that sees
// no activity for the TTL is dropped on the next access.
type SessionService struct {
	supplier QuestionSupplier
	ttl      time.Duration

	mu       sync.Mutex
	sessions map[string]*models.TestSession

	now       func() time.Time
	pickQuote func(n int) int
}

func NewSessionService(supplier QuestionSupplier, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		supplier:  supplier,
		ttl:       ttl,
		sessions:  make(map[string]*models.TestSession),
		now:       time.Now,
		pickQuote: rand.IntN,
	}
}

type sessionPlan struct {
	selector models.Selector
	count    int
	minutes  int
}

func planFor(req models.SessionCreateRequest) (sessionPlan, models.Topic, error) {
	switch req.Kind {
	case models.Sprint:
		topic, err := models.ParseTopic(req.Topic)
		if err != nil {
			return sessionPlan{}, "", err
		}
		return sessionPlan{models.TopicSelector(topic), models.SprintQuestions, models.SprintMinutes}, topic, nil
	case models.Marathon:
		return sessionPlan{models.MixedSelector(""), models.MarathonQuestions, models.MarathonMinutes}, "", nil
	case models.Mock:
		mock, ok := models.FindMockTest(req.MockID)
		if !ok {
			return sessionPlan{}, "", fmt.Errorf("%w: %s", ErrUnknownMock, req.MockID)
		}
		sel := models.MixedSelector(fmt.Sprintf("Full Mock Test %s", mock.ID))
		return sessionPlan{sel, mock.QuestionCount, mock.DurationMinutes}, "", nil
	case models.Daily:
		return sessionPlan{models.DailySelector(), models.DailyQuestions, models.SprintMinutes}, "", nil
	}
	return sessionPlan{}, "", fmt.Errorf("unknown session kind %q", req.Kind)
}

// CreateSession supplies questions for the requested test and starts its clock.
func (s *SessionService) CreateSession(ctx context.Context, req models.SessionCreateRequest) (*models.TestSession, error) {
	plan, topic, err := planFor(req)
	if err != nil {
		return nil, err
	}

	questions := s.supplier.Supply(ctx, plan.selector, plan.count)
	now := s.now()
	session := &models.TestSession{
		ID:              uuid.New().String(),
		Kind:            req.Kind,
		Topic:           topic,
		MockID:          req.MockID,
		Questions:       questions,
		UserAnswers:     make([]*int, len(questions)),
		StartTime:       now,
		DurationMinutes: plan.minutes,
		LastActivity:    now,
	}

	s.mu.Lock()
	s.evictExpiredLocked(now)
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.Printf("✅ New %s session %s with %d questions (%s)", req.Kind, session.ID, len(questions), plan.selector)
	return snapshot(session), nil
}

// GetSession returns a copy of the session. An unfinished session whose time
// limit has passed is finished first.
func (s *SessionService) GetSession(id string) (*models.TestSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	return snapshot(session), nil
}

// SubmitAnswer records option for the question at index. Answering again
// overwrites the previous choice.
func (s *SessionService) SubmitAnswer(id string, index, option int) (*models.TestSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	if session.Finished() {
		return nil, ErrSessionFinished
	}
	if index < 0 || index >= len(session.Questions) || option < 0 || option >= models.OptionCount {
		return nil, ErrAnswerOutOfRange
	}
	choice := option
	session.UserAnswers[index] = &choice
	session.LastActivity = s.now()
	return snapshot(session), nil
}

// FinishSession scores the session and attaches a closing quote. A session is
// finished exactly once.
func (s *SessionService) FinishSession(id string) (*models.TestSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	if session.Finished() {
		return nil, ErrSessionFinished
	}
	s.finishLocked(session, s.now())
	return snapshot(session), nil
}

// GetResult analyses a finished session.
func (s *SessionService) GetResult(id string) (*models.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	if !session.Finished() {
		return nil, ErrSessionNotFinished
	}
	return Analyze(session), nil
}

// DiscardSession forgets a session.
func (s *SessionService) DiscardSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	log.Printf("🗑️ Session %s discarded", id)
	return nil
}

// ActiveSessions counts sessions still held in memory.
func (s *SessionService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked(s.now())
	return len(s.sessions)
}

func (s *SessionService) lookupLocked(id string) (*models.TestSession, error) {
	now := s.now()
	s.evictExpiredLocked(now)
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	deadline := session.StartTime.Add(time.Duration(session.DurationMinutes) * time.Minute)
	if !session.Finished() && now.After(deadline) {
		log.Printf("⏰ Session %s ran out of time", id)
		s.finishLocked(session, deadline)
	}
	return session, nil
}

func (s *SessionService) finishLocked(session *models.TestSession, at time.Time) {
	score := 0
	for i, q := range session.Questions {
		if a := session.UserAnswers[i]; a != nil && *a == q.CorrectOptionIndex {
			score++
		}
	}
	end := at
	session.EndTime = &end
	session.Score = &score
	session.ClosingQuote = samples.ClosingQuotes[s.pickQuote(len(samples.ClosingQuotes))]
	session.LastActivity = s.now()
	log.Printf("🏁 Session %s finished: %d/%d", session.ID, score, len(session.Questions))
}

func (s *SessionService) evictExpiredLocked(now time.Time) {
	for id, session := range s.sessions {
		if now.Sub(session.LastActivity) > s.ttl {
			delete(s.sessions, id)
			log.Printf("⌛ Session %s expired", id)
		}
	}
}

func snapshot(session *models.TestSession) *models.TestSession {
	out := *session
	out.UserAnswers = make([]*int, len(session.UserAnswers))
	for i, a := range session.UserAnswers {
		if a != nil {
			v := *a
			out.UserAnswers[i] = &v
		}
	}
	if session.EndTime != nil {
		end := *session.EndTime
		out.EndTime = &end
	}
	if session.Score != nil {
		score := *session.Score
		out.Score = &score
	}
	return &out
}
