// Package samples holds the bundled reference content: the local question bank
// that backs every supply request and the closing quotes shown on results.
package samples

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
)

//go:embed questions.json
var questionsJSON []byte

var (
	loadOnce sync.Once
	loaded   []models.Question
	loadErr  error
)

type questionFile struct {
	SchemaVersion int               `json:"schemaVersion"`
	Questions     []models.Question `json:"questions"`
}

// Load parses the embedded bank and validates every record.
func Load() ([]models.Question, error) {
	loadOnce.Do(func() {
		var file questionFile
		if err := json.Unmarshal(questionsJSON, &file); err != nil {
			loadErr = fmt.Errorf("error parsing bundled questions: %w", err)
			return
		}
		for _, q := range file.Questions {
			if err := q.Validate(); err != nil {
				loadErr = err
				return
			}
		}
		loaded = file.Questions
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]models.Question, len(loaded))
	for i, q := range loaded {
		out[i] = q.Clone()
	}
	return out, nil
}

// Questions is Load for callers that treat a broken bundle as fatal.
func Questions() []models.Question {
	qs, err := Load()
	if err != nil {
		panic(err)
	}
	return qs
}

// ClosingQuotes are the Bhojpuri motivational lines attached to finished sessions.
var ClosingQuotes = []string{
	"हार के डर से जो रुके ना, ऊहे जिनगी में आगे बढ़े ला।",
	"मेहनत अगर सच्चा होखे, त किस्मत खुद रास्ता छोड़े ला।",
	"गलती से ना घबराई हो दोस्त, टॉपर भी पहिले ‘Try Again’ दबवले रहे।",
	"जेकरा मेहनत पर भरोसा होला, ओकरा किस्मत के सहारा ना चाहीं।",
	"मंजिल त मिलीहे, बस थोड़ा अउरी पसीना बहावे के बा।",
	"दुनिया के परवाह मत करऽ, रउआ बस आपन वर्दी के सपना पूरा करीं।",
	"कठिन रस्ता ही खूबसूरत मंजिल तक ले जाला।",
	"सपना देखीं ना, सपना के जियें के आदत डालीं।",
	"रउआ के कोशिश ही रउआ के जीत के असली कहानी लिखी।",
	"जब वर्दी के नशा चढ़ जाला, त दुनिया के हर सुख फीका लागे ला।",
}

// Leaderboard is the static board shown on the dashboard.
var Leaderboard = []models.LeaderboardEntry{
	{Rank: 1, Name: "Ravi Yadav", Score: 98, Time: "42:10"},
	{Rank: 2, Name: "Pooja Maurya", Score: 96, Time: "47:55"},
	{Rank: 3, Name: "Sandeep Kushwaha", Score: 95, Time: "51:02"},
	{Rank: 4, Name: "Anjali Verma", Score: 93, Time: "49:37"},
	{Rank: 5, Name: "Manoj Tiwari", Score: 91, Time: "55:18"},
	{Rank: 6, Name: "Suman Pal", Score: 90, Time: "58:40"},
	{Rank: 7, Name: "Deepak Nishad", Score: 88, Time: "61:12"},
	{Rank: 8, Name: "Kiran Gupta", Score: 87, Time: "63:05"},
}
