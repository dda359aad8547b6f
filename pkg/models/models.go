package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// Language is one of the three languages every question is written in.
type Language string

const (
	Hindi    Language = "Hindi"
	English  Language = "English"
	Bhojpuri Language = "Bhojpuri"
)

// Languages lists the supported languages in display order.
var Languages = []Language{Hindi, English, Bhojpuri}

// CanonicalLanguage is the language whose text identifies a question.
const CanonicalLanguage = English

// OptionCount is the fixed number of options per language.
const OptionCount = 4

type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// LocalizedText maps a language to a string.
type LocalizedText map[Language]string

// LocalizedOptions maps a language to its ordered options.
type LocalizedOptions map[Language][]string

// Question is a single multiple-choice question in three languages.
type Question struct {
	ID                 string           `json:"id"`
	Topic              Topic            `json:"topic" validate:"required,topic"`
	Text               LocalizedText    `json:"text" validate:"required,len=3,dive,keys,oneof=Hindi English Bhojpuri,endkeys,required"`
	Options            LocalizedOptions `json:"options" validate:"required,len=3,dive,keys,oneof=Hindi English Bhojpuri,endkeys,len=4,dive,required"`
	CorrectOptionIndex int              `json:"correctOptionIndex" validate:"min=0,max=3"`
	Explanation        LocalizedText    `json:"explanation" validate:"required,len=3,dive,keys,oneof=Hindi English Bhojpuri,endkeys,required"`
	Difficulty         Difficulty       `json:"difficulty,omitempty" validate:"omitempty,oneof=EASY MEDIUM HARD"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("topic", func(fl validator.FieldLevel) bool {
		return Topic(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks the record against the question schema.
func (q Question) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("invalid question %q: %w", q.ID, err)
	}
	return nil
}

// ValidateStruct runs the shared validator over a request DTO.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

// Identity returns the content identity used for deduplication: the canonical
// language text, NFC-normalised with whitespace collapsed.
func (q Question) Identity() string {
	return ContentIdentity(q.Text[CanonicalLanguage])
}

// ContentIdentity normalises text into a dedup key.
func ContentIdentity(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// Clone returns a deep copy so callers can reorder options freely.
func (q Question) Clone() Question {
	c := q
	c.Text = cloneText(q.Text)
	c.Explanation = cloneText(q.Explanation)
	c.Options = make(LocalizedOptions, len(q.Options))
	for lang, opts := range q.Options {
		c.Options[lang] = append([]string(nil), opts...)
	}
	return c
}

// CorrectOption returns the correct option text in the given language.
func (q Question) CorrectOption(lang Language) string {
	opts := q.Options[lang]
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(opts) {
		return ""
	}
	return opts[q.CorrectOptionIndex]
}

func cloneText(t LocalizedText) LocalizedText {
	if t == nil {
		return nil
	}
	c := make(LocalizedText, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// QuestionResponse wraps a list of questions.
type QuestionResponse struct {
	Questions []Question `json:"questions"`
	Count     int        `json:"count"`
}
