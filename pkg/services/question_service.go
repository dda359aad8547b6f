package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/avinash937288-ai/verdi-app/pkg/bank"
	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/provider"
	"github.com/avinash937288-ai/verdi-app/pkg/supply"
)

// HealthChecker is implemented by backing stores that can be pinged.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// QuestionService supplies questions to sessions and feeds the user bank.
type QuestionService struct {
	engine   *supply.Engine
	bank     *bank.UserQuestionBank
	provider provider.ContentProvider
	consumed *supply.ConsumedSet
	health   HealthChecker
}

// NewQuestionService creates the service. health may be nil when the bank is
// not backed by a remote store.
func NewQuestionService(engine *supply.Engine, userBank *bank.UserQuestionBank, p provider.ContentProvider, health HealthChecker) *QuestionService {
	if p == nil {
		p = provider.Disabled{}
	}
	return &QuestionService{
		engine:   engine,
		bank:     userBank,
		provider: p,
		consumed: supply.NewConsumedSet(),
		health:   health,
	}
}

// Supply returns count questions for sel. Ids handed out are remembered for
// the lifetime of the service, so later sessions see fresh questions first.
func (s *QuestionService) Supply(ctx context.Context, sel models.Selector, count int) []models.Question {
	return s.engine.Supply(ctx, s.consumed, sel, count)
}

// ConsumedCount is the number of distinct question ids handed out so far.
func (s *QuestionService) ConsumedCount() int {
	return s.consumed.Len()
}

// ResetConsumed forgets every handed-out id.
func (s *QuestionService) ResetConsumed() {
	s.consumed.Reset()
	log.Println("🔄 Consumed question set reset")
}

// BulkImport turns raw document text into questions and stores them.
func (s *QuestionService) BulkImport(ctx context.Context, content string) (*models.ImportResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	questions, err := s.provider.Synthesize(ctx, provider.Request{
		Instruction: provider.BulkImportInstruction(content),
		Topic:       models.StaticGK,
	})
	if err != nil {
		return nil, fmt.Errorf("error extracting questions: %w", err)
	}
	return s.store(ctx, models.SourceBulk, questions)
}

// OCRImport extracts questions from a photographed page. image is base64,
// optionally prefixed with a data URL header that carries the MIME type.
func (s *QuestionService) OCRImport(ctx context.Context, image, mimeType string) (*models.ImportResult, error) {
	data, detected, err := decodeImage(image)
	if err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = detected
	}
	questions, err := s.provider.Synthesize(ctx, provider.Request{
		Instruction: provider.OCRInstruction(),
		Image:       &provider.Image{Data: data, MIMEType: mimeType},
		Topic:       models.StaticGK,
	})
	if err != nil {
		return nil, fmt.Errorf("error extracting questions from image: %w", err)
	}
	return s.store(ctx, models.SourceOCR, questions)
}

func (s *QuestionService) store(ctx context.Context, source string, questions []models.Question) (*models.ImportResult, error) {
	stored, err := s.bank.Append(ctx, questions)
	if err != nil {
		return nil, err
	}
	log.Printf("📥 %s import: %d extracted, %d stored", source, len(questions), stored)
	return &models.ImportResult{
		Source:    source,
		Extracted: len(questions),
		Stored:    stored,
		Questions: questions,
	}, nil
}

// BankCount is the number of questions in the user bank.
func (s *QuestionService) BankCount(ctx context.Context) int {
	return s.bank.Count(ctx)
}

// ClearBank empties the user bank. The local sample bank is not affected.
func (s *QuestionService) ClearBank(ctx context.Context) error {
	if err := s.bank.Clear(ctx); err != nil {
		return err
	}
	log.Println("🗑️ User question bank cleared")
	return nil
}

// HealthCheck pings the backing store, if any.
func (s *QuestionService) HealthCheck(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	if err := s.health.HealthCheck(ctx); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	return nil
}

func decodeImage(image string) ([]byte, string, error) {
	image = strings.TrimSpace(image)
	mimeType := ""
	if strings.HasPrefix(image, "data:") {
		header, payload, ok := strings.Cut(image, ",")
		if !ok {
			return nil, "", ErrInvalidImage
		}
		mimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		image = payload
	}
	if image == "" {
		return nil, "", ErrInvalidImage
	}
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(image); err != nil {
			return nil, "", ErrInvalidImage
		}
	}
	return data, mimeType, nil
}
