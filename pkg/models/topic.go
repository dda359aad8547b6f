package models

import (
	"errors"
	"fmt"
	"strings"
)

// Topic is the subject category of a question.
type Topic string

const (
	Science        Topic = "General Science"
	History        Topic = "History"
	Constitution   Topic = "Constitution"
	Economy        Topic = "Economy"
	Geography      Topic = "Geography"
	Culture        Topic = "Culture"
	Environment    Topic = "Environment"
	UPSpecial      Topic = "UP Special GK"
	CurrentAffairs Topic = "Current Affairs"
	PoliceSecurity Topic = "Police & Security"
	StaticGK       Topic = "Static GK"
)

// TopicInfo describes a topic on the dashboard.
type TopicInfo struct {
	Topic       Topic  `json:"topic"`
	Description string `json:"description"`
}

// Topics is the syllabus in dashboard order.
var Topics = []TopicInfo{
	{Science, "Physics, Chemistry, Biology (10th Level)"},
	{History, "Independence Struggle & UP History"},
	{Constitution, "Indian Constitution & Legal Articles"},
	{Economy, "GST, Demonetization, Agriculture"},
	{Geography, "Rivers, Mountains, Minerals"},
	{Culture, "UP Fairs, Dance (Kathak, Nautanki)"},
	{Environment, "Population, Urbanization, Ecology"},
	{UPSpecial, "Revenue, Administration, Education"},
	{CurrentAffairs, "Awards, Books, Authors, News"},
	{PoliceSecurity, "Human Rights, Security, Terrorism"},
	{StaticGK, "Countries, Capitals, Currency, Days"},
}

var ErrUnknownTopic = errors.New("unknown topic")

// Valid reports whether t is one of the known topics.
func (t Topic) Valid() bool {
	for _, info := range Topics {
		if info.Topic == t {
			return true
		}
	}
	return false
}

// ParseTopic matches a topic name case-insensitively.
func ParseTopic(s string) (Topic, error) {
	s = strings.TrimSpace(s)
	for _, info := range Topics {
		if strings.EqualFold(string(info.Topic), s) {
			return info.Topic, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownTopic, s)
}
