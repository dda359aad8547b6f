package provider

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini-backed provider.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL and HTTPClient override the endpoint, mainly for tests.
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiProvider calls the Gemini API with a JSON response schema.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrProviderUnavailable
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("error creating gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiProvider{client: client, model: model, timeout: timeout}, nil
}

// Synthesize sends one request. Each call gets its own timeout; a timeout is
// returned as an ordinary error.
func (p *GeminiProvider) Synthesize(ctx context.Context, req Request) ([]models.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	parts := make([]*genai.Part, 0, 2)
	if req.Image != nil {
		mime := req.Image.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{Data: req.Image.Data, MIMEType: mime}})
	}
	parts = append(parts, &genai.Part{Text: req.Instruction})
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   questionSchema(),
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	questions := ParseQuestions(responseText(resp), req.Topic)
	log.Printf("🤖 Gemini returned %d valid questions in %s", len(questions), time.Since(start).Round(time.Millisecond))
	return questions, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		// only the first usable candidate
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String()
}

func localizedSchema(item *genai.Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(models.Languages))
	for _, lang := range models.Languages {
		props[string(lang)] = item
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props}
}

func questionSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	topics := make([]string, len(models.Topics))
	for i, info := range models.Topics {
		topics[i] = string(info.Topic)
	}
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":                 str,
				"topic":              {Type: genai.TypeString, Enum: topics},
				"text":               localizedSchema(str),
				"options":            localizedSchema(&genai.Schema{Type: genai.TypeArray, Items: str}),
				"correctOptionIndex": {Type: genai.TypeInteger},
				"explanation":        localizedSchema(str),
				"difficulty":         {Type: genai.TypeString, Enum: []string{string(models.Easy), string(models.Medium), string(models.Hard)}},
			},
			Required: []string{"id", "topic", "text", "options", "correctOptionIndex", "explanation"},
		},
	}
}
