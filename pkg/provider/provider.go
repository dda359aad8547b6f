// Package provider turns free-text instructions (and optional page photos)
// into validated questions using a generative content service.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
)

// ErrProviderUnavailable is returned when no provider is configured.
var ErrProviderUnavailable = errors.New("content provider unavailable")

// Image is an inline image forwarded for OCR extraction.
type Image struct {
	Data     []byte
	MIMEType string
}

// Request describes one synthesis call.
type Request struct {
	Instruction string
	Image       *Image
	// Topic is assigned to records whose topic is missing or unknown.
	Topic models.Topic
}

// ContentProvider synthesizes, translates or extracts questions.
type ContentProvider interface {
	Synthesize(ctx context.Context, req Request) ([]models.Question, error)
}

// Disabled is the provider used when no API key is configured.
type Disabled struct{}

func (Disabled) Synthesize(context.Context, Request) ([]models.Question, error) {
	return nil, ErrProviderUnavailable
}

type record struct {
	models.Question
	Pillar string `json:"pillar"`
}

// ParseQuestions decodes a provider response. It accepts a JSON array, an
// object with a "questions" array, or either wrapped in a markdown code fence.
// Malformed payloads yield no questions and invalid records are dropped.
func ParseQuestions(raw string, fallback models.Topic) []models.Question {
	payload := bytes.TrimSpace([]byte(stripFence(raw)))
	if len(payload) == 0 {
		return []models.Question{}
	}

	var records []json.RawMessage
	if payload[0] == '{' {
		var wrapped struct {
			Questions []json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal(payload, &wrapped); err != nil {
			log.Printf("⚠️ Malformed provider payload: %v", err)
			return []models.Question{}
		}
		records = wrapped.Questions
	} else if err := json.Unmarshal(payload, &records); err != nil {
		log.Printf("⚠️ Malformed provider payload: %v", err)
		return []models.Question{}
	}

	questions := make([]models.Question, 0, len(records))
	dropped := 0
	for _, raw := range records {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			dropped++
			continue
		}
		q := rec.Question
		q.Topic = resolveTopic(string(q.Topic), rec.Pillar, fallback)
		if strings.TrimSpace(q.ID) == "" {
			q.ID = uuid.NewString()
		}
		if err := q.Validate(); err != nil {
			dropped++
			continue
		}
		questions = append(questions, q)
	}
	if dropped > 0 {
		log.Printf("⚠️ Dropped %d invalid provider records", dropped)
	}
	return questions
}

func resolveTopic(topic, pillar string, fallback models.Topic) models.Topic {
	for _, candidate := range []string{topic, pillar} {
		if t, err := models.ParseTopic(candidate); err == nil {
			return t
		}
	}
	return fallback
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}
