package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
)

const (
	// StorageKey is the single key the whole bank lives under.
	StorageKey = "vardi_user_questions"
	// SchemaVersion is written with every save. Version 0 is the legacy bare array.
	SchemaVersion = 1
)

var (
	// ErrUnsupportedSchema means the stored bank was written by a newer version.
	ErrUnsupportedSchema = errors.New("unsupported question bank schema")
	// ErrCorrupt means the stored bank could not be decoded.
	ErrCorrupt = errors.New("corrupt question bank")
)

type document struct {
	SchemaVersion int               `json:"schemaVersion"`
	Questions     []json.RawMessage `json:"questions"`
}

// UserQuestionBank holds questions imported by administrators, deduplicated by
// content identity.
type UserQuestionBank struct {
	store Store
	key   string
	mu    sync.Mutex
}

func New(store Store) *UserQuestionBank {
	return &UserQuestionBank{store: store, key: StorageKey}
}

// Read returns the stored questions. Missing, unreadable or corrupt storage
// reads as an empty bank; individually invalid records are skipped.
func (b *UserQuestionBank) Read(ctx context.Context) []models.Question {
	questions, err := b.load(ctx)
	if err != nil {
		log.Printf("⚠️ Question bank unreadable, treating as empty: %v", err)
		return []models.Question{}
	}
	return questions
}

// Append merges qs into the bank. Existing entries come first and the first
// copy of each content identity is the one kept. New questions whose id is
// already taken get a fresh one. It returns how many new questions were
// stored. Append never overwrites a bank it cannot decode.
func (b *UserQuestionBank) Append(ctx context.Context, qs []models.Question) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, err := b.load(ctx)
	if err != nil {
		return 0, fmt.Errorf("error reading question bank: %w", err)
	}

	seen := make(map[string]bool, len(existing)+len(qs))
	ids := make(map[string]bool, len(existing)+len(qs))
	merged := make([]models.Question, 0, len(existing)+len(qs))
	for _, q := range existing {
		if seen[q.Identity()] {
			continue
		}
		seen[q.Identity()] = true
		ids[q.ID] = true
		merged = append(merged, q)
	}

	added := 0
	for _, q := range qs {
		if q.ID == "" || ids[q.ID] {
			q.ID = uuid.NewString()
		}
		if err := q.Validate(); err != nil {
			log.Printf("⚠️ Skipping invalid question on import: %v", err)
			continue
		}
		if seen[q.Identity()] {
			continue
		}
		seen[q.Identity()] = true
		ids[q.ID] = true
		merged = append(merged, q)
		added++
	}

	if err := b.save(ctx, merged); err != nil {
		return 0, err
	}
	log.Printf("📚 Question bank now holds %d questions (%d new)", len(merged), added)
	return added, nil
}

// Clear removes every stored question.
func (b *UserQuestionBank) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.store.Delete(ctx, b.key); err != nil {
		return fmt.Errorf("error clearing question bank: %w", err)
	}
	return nil
}

// Count returns the number of readable questions in the bank.
func (b *UserQuestionBank) Count(ctx context.Context) int {
	return len(b.Read(ctx))
}

// load returns store failures, ErrCorrupt and ErrUnsupportedSchema as errors.
// A missing key is an empty bank.
func (b *UserQuestionBank) load(ctx context.Context) ([]models.Question, error) {
	raw, found, err := b.store.Get(ctx, b.key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Question{}, nil
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(records))
	for _, rec := range records {
		var q models.Question
		if err := json.Unmarshal(rec, &q); err != nil {
			continue
		}
		if err := q.Validate(); err != nil {
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (b *UserQuestionBank) save(ctx context.Context, qs []models.Question) error {
	records := make([]json.RawMessage, 0, len(qs))
	for _, q := range qs {
		rec, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("error serializing question %s: %w", q.ID, err)
		}
		records = append(records, rec)
	}
	data, err := json.Marshal(document{SchemaVersion: SchemaVersion, Questions: records})
	if err != nil {
		return fmt.Errorf("error serializing question bank: %w", err)
	}
	if err := b.store.Set(ctx, b.key, data, 0); err != nil {
		return fmt.Errorf("error saving question bank: %w", err)
	}
	return nil
}

func decodeRecords(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var legacy []json.RawMessage
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return legacy, nil
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedSchema, doc.SchemaVersion)
	}
	return doc.Questions, nil
}
