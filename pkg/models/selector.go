package models

import (
	"errors"
	"strings"
)

// SelectorKind tags the variant held by a Selector.
type SelectorKind int

const (
	SelectTopic SelectorKind = iota
	SelectMixed
	SelectDaily
)

var ErrEmptySelector = errors.New("empty selector")

// DailyChallengeLabel names the daily mixed challenge.
const DailyChallengeLabel = "Daily Challenge"

// Selector decides which questions are eligible for a supply request.
// A topic selector matches questions of exactly that topic; mixed and daily
// selectors accept every topic.
type Selector struct {
	Kind  SelectorKind
	Topic Topic
	Label string
}

func TopicSelector(t Topic) Selector {
	return Selector{Kind: SelectTopic, Topic: t, Label: string(t)}
}

// MixedSelector builds a mixed selector; label is used in provider instructions.
func MixedSelector(label string) Selector {
	if label == "" {
		label = "Mixed GK Marathon"
	}
	return Selector{Kind: SelectMixed, Label: label}
}

func DailySelector() Selector {
	return Selector{Kind: SelectDaily, Label: DailyChallengeLabel}
}

// Matches reports whether q is eligible under the selector.
func (s Selector) Matches(q Question) bool {
	if s.Kind == SelectTopic {
		return q.Topic == s.Topic
	}
	return true
}

func (s Selector) IsMixed() bool {
	return s.Kind != SelectTopic
}

func (s Selector) String() string {
	return s.Label
}

// ParseSelector resolves a free-form selector string: "Daily Challenge", any
// label mentioning "mixed" or "full" (marathons and full mocks), or a topic name.
func ParseSelector(s string) (Selector, error) {
	trimmed := strings.TrimSpace(s)
	lower := strings.ToLower(trimmed)
	switch {
	case trimmed == "":
		return Selector{}, ErrEmptySelector
	case strings.EqualFold(trimmed, DailyChallengeLabel):
		return DailySelector(), nil
	case strings.Contains(lower, "mixed") || strings.Contains(lower, "full"):
		return MixedSelector(trimmed), nil
	}
	topic, err := ParseTopic(trimmed)
	if err != nil {
		return Selector{}, err
	}
	return TopicSelector(topic), nil
}
