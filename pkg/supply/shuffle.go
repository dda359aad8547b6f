package supply

import (
	"math/rand"
	"sync"
	"time"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
)

// Rand is the random source used for pool ordering and option shuffles.
// *rand.Rand satisfies it.
type Rand interface {
	Perm(n int) []int
}

// NewRand returns a time-seeded source that is safe for concurrent use.
func NewRand() Rand {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRand returns a deterministic source, for tests and replays.
func NewSeededRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)
}

// ShuffleOptions returns a copy of q whose options appear in a uniformly random
// order. The same permutation is applied to every language and the correct
// index follows the originally correct option. q itself is not modified.
func ShuffleOptions(q models.Question, r Rand) models.Question {
	out := q.Clone()
	perm := r.Perm(models.OptionCount)
	for lang, opts := range q.Options {
		if len(opts) != models.OptionCount {
			continue
		}
		shuffled := make([]string, models.OptionCount)
		for newPos, oldPos := range perm {
			shuffled[newPos] = opts[oldPos]
		}
		out.Options[lang] = shuffled
	}
	for newPos, oldPos := range perm {
		if oldPos == q.CorrectOptionIndex {
			out.CorrectOptionIndex = newPos
			break
		}
	}
	return out
}
