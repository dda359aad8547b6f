package provider

import "fmt"

// Payload limits, in runes, for text embedded in instructions.
const (
	TodayQuizPayloadLimit      = 5000
	HistoryPayloadLimit        = 4000
	CurrentAffairsPayloadLimit = 4000
	BulkImportPayloadLimit     = 10000
)

const examName = "UP Homeguard"

// Truncate cuts s to at most limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func TodayQuizInstruction(count int, raw string) string {
	return fmt.Sprintf(`Convert this 'Today Quiz' raw data into a structured JSON array of %d exam questions for the %s exam.

Raw Data: %s

Requirements:
- Translate questions, options, and explanations into Hindi, English, and Bhojpuri.
- Assign appropriate topic categories.
- Strictly follow our JSON schema.
- Ensure options are realistic.`, count, examName, Truncate(raw, TodayQuizPayloadLimit))
}

func HistoryInstruction(count int, raw string) string {
	return fmt.Sprintf(`Generate %d History questions based on this 'History of Today' data: %s.
Rules: Multilingual (Hindi/English/Bhojpuri), JSON format.`, count, Truncate(raw, HistoryPayloadLimit))
}

func CurrentAffairsInstruction(count int, raw string) string {
	return fmt.Sprintf(`Generate %d Current Affairs questions for the %s exam based on this data: %s.`,
		count, examName, Truncate(raw, CurrentAffairsPayloadLimit))
}

// ShortfallInstruction asks for count fresh questions on label.
func ShortfallInstruction(count int, label string) string {
	return fmt.Sprintf(`Generate %d unique exam questions for %s. Topic: %s.
STRICT: No placeholders. All options must be shuffled and correct answers must be diverse. No Math.`,
		count, examName, label)
}

func BulkImportInstruction(raw string) string {
	return fmt.Sprintf(`Transform this text into structured JSON questions. No Math.
Raw: %s`, Truncate(raw, BulkImportPayloadLimit))
}

func OCRInstruction() string {
	return "Extract questions to JSON. Real data only."
}
