// Package modeltest builds valid questions for tests.
package modeltest

import (
	"fmt"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
)

// Question returns a valid question whose English text is english. English
// options are "A".."D", other languages use "<lang> A".."<lang> D"; C is correct.
func Question(id string, topic models.Topic, english string) models.Question {
	q := models.Question{
		ID:                 id,
		Topic:              topic,
		Text:               models.LocalizedText{},
		Options:            models.LocalizedOptions{},
		Explanation:        models.LocalizedText{},
		CorrectOptionIndex: 2,
		Difficulty:         models.Medium,
	}
	for _, lang := range models.Languages {
		q.Text[lang] = fmt.Sprintf("[%s] %s", lang, english)
		q.Explanation[lang] = fmt.Sprintf("[%s] because", lang)
		opts := make([]string, models.OptionCount)
		for i := range opts {
			opts[i] = fmt.Sprintf("%s %c", lang, 'A'+i)
		}
		q.Options[lang] = opts
	}
	q.Text[models.English] = english
	q.Options[models.English] = []string{"A", "B", "C", "D"}
	return q
}

// Questions builds n questions of one topic with distinct texts.
func Questions(prefix string, topic models.Topic, n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = Question(fmt.Sprintf("%s-%d", prefix, i+1), topic, fmt.Sprintf("%s question %d?", prefix, i+1))
	}
	return qs
}
