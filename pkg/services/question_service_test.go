package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avinash937288-ai/verdi-app/pkg/bank"
	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/models/modeltest"
	"github.com/avinash937288-ai/verdi-app/pkg/provider"
	"github.com/avinash937288-ai/verdi-app/pkg/samples"
	"github.com/avinash937288-ai/verdi-app/pkg/supply"
)

type recordingProvider struct {
	requests []provider.Request
	out      []models.Question
	err      error
}

func (p *recordingProvider) Synthesize(_ context.Context, req provider.Request) ([]models.Question, error) {
	p.requests = append(p.requests, req)
	return p.out, p.err
}

type pinger struct{ err error }

func (p pinger) HealthCheck(context.Context) error { return p.err }

func newQuestionService(t *testing.T, p provider.ContentProvider) (*QuestionService, *bank.UserQuestionBank) {
	t.Helper()
	userBank := bank.New(bank.NewMemoryStore())
	engine, err := supply.NewEngine(supply.Config{
		UserBank:  userBank,
		LocalBank: samples.Questions(),
		Provider:  p,
		Rand:      supply.NewSeededRand(1),
	})
	require.NoError(t, err)
	return NewQuestionService(engine, userBank, p, nil), userBank
}

func TestBulkImportStoresExtractedQuestions(t *testing.T) {
	p := &recordingProvider{out: []models.Question{
		modeltest.Question("b1", models.UPSpecial, "Which is the state bird of Uttar Pradesh?"),
		modeltest.Question("b2", models.UPSpecial, "Which is the state animal of Uttar Pradesh?"),
	}}
	s, userBank := newQuestionService(t, p)
	ctx := context.Background()

	result, err := s.BulkImport(ctx, "Q1. State bird of UP? Sarus Crane ...")
	require.NoError(t, err)
	require.Equal(t, models.SourceBulk, result.Source)
	require.Equal(t, 2, result.Extracted)
	require.Equal(t, 2, result.Stored)
	require.Len(t, p.requests, 1)
	require.Contains(t, p.requests[0].Instruction, "State bird of UP?")
	require.Nil(t, p.requests[0].Image)
	require.Equal(t, 2, userBank.Count(ctx))

	again, err := s.BulkImport(ctx, "same document")
	require.NoError(t, err)
	require.Equal(t, 0, again.Stored)
	require.Equal(t, 2, s.BankCount(ctx))

	_, err = s.BulkImport(ctx, "   ")
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestBulkImportProviderFailure(t *testing.T) {
	s, _ := newQuestionService(t, &recordingProvider{err: errors.New("quota exceeded")})
	_, err := s.BulkImport(context.Background(), "text")
	require.Error(t, err)

	s, _ = newQuestionService(t, nil)
	_, err = s.BulkImport(context.Background(), "text")
	require.ErrorIs(t, err, provider.ErrProviderUnavailable)
}

func TestOCRImportDecodesImage(t *testing.T) {
	p := &recordingProvider{out: []models.Question{modeltest.Question("o1", models.Culture, "Nautanki is a folk theatre of?")}}
	s, _ := newQuestionService(t, p)
	ctx := context.Background()
	raw := []byte{0x89, 'P', 'N', 'G'}
	encoded := base64.StdEncoding.EncodeToString(raw)

	result, err := s.OCRImport(ctx, "data:image/png;base64,"+encoded, "")
	require.NoError(t, err)
	require.Equal(t, models.SourceOCR, result.Source)
	require.Equal(t, 1, result.Stored)
	require.Equal(t, raw, p.requests[0].Image.Data)
	require.Equal(t, "image/png", p.requests[0].Image.MIMEType)
	require.Equal(t, provider.OCRInstruction(), p.requests[0].Instruction)

	_, err = s.OCRImport(ctx, encoded, "")
	require.NoError(t, err)
	require.Empty(t, p.requests[1].Image.MIMEType)

	_, err = s.OCRImport(ctx, "%%% not base64 %%%", "")
	require.ErrorIs(t, err, ErrInvalidImage)
	_, err = s.OCRImport(ctx, "data:image/png;base64,", "")
	require.ErrorIs(t, err, ErrInvalidImage)
}

func TestSupplyPrefersImportedQuestions(t *testing.T) {
	imported := modeltest.Questions("env", models.Environment, 3)
	p := &recordingProvider{out: imported}
	s, _ := newQuestionService(t, p)
	ctx := context.Background()

	_, err := s.BulkImport(ctx, "environment notes")
	require.NoError(t, err)

	// The local bank has one Environment question, so a 4-question sprint
	// is exactly the imported three plus that one.
	p.out = nil
	qs := s.Supply(ctx, models.TopicSelector(models.Environment), 4)
	require.Len(t, qs, 4)
	ids := make(map[string]bool)
	for _, q := range qs {
		ids[q.ID] = true
	}
	for _, q := range imported {
		require.True(t, ids[q.ID], q.ID)
	}
	require.Equal(t, 4, s.ConsumedCount())

	s.ResetConsumed()
	require.Equal(t, 0, s.ConsumedCount())
}

func TestQuestionServiceHealth(t *testing.T) {
	s, _ := newQuestionService(t, nil)
	require.NoError(t, s.HealthCheck(context.Background()))

	s.health = pinger{err: errors.New("dial tcp: refused")}
	require.Error(t, s.HealthCheck(context.Background()))
}

func TestClearBank(t *testing.T) {
	p := &recordingProvider{out: modeltest.Questions("geo", models.Geography, 2)}
	s, _ := newQuestionService(t, p)
	ctx := context.Background()
	_, err := s.BulkImport(ctx, "rivers")
	require.NoError(t, err)
	require.NoError(t, s.ClearBank(ctx))
	require.Equal(t, 0, s.BankCount(ctx))
}
