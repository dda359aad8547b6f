package supply

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/avinash937288-ai/verdi-app/pkg/livefeed"
	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/provider"
)

var ErrEmptyLocalBank = errors.New("local sample bank is empty")

const defaultCallTimeout = 30 * time.Second

// BankReader is the read side of the user question bank.
type BankReader interface {
	Read(ctx context.Context) []models.Question
}

// LiveFeed fetches one raw payload from the current-affairs feed.
type LiveFeed interface {
	Fetch(ctx context.Context, kind livefeed.Kind) (string, error)
}

// Config wires an Engine. Only LocalBank is required.
type Config struct {
	UserBank  BankReader
	LocalBank []models.Question
	Feed      LiveFeed
	Provider  provider.ContentProvider
	Rand      Rand
	// CallTimeout bounds every individual feed and provider call.
	CallTimeout time.Duration
}

// Engine assembles question batches from the user bank, the local sample bank,
// the live feed and the content provider.
type Engine struct {
	userBank    BankReader
	local       []models.Question
	localIDs    map[string]bool
	feed        LiveFeed
	provider    provider.ContentProvider
	rng         Rand
	callTimeout time.Duration
}

func NewEngine(cfg Config) (*Engine, error) {
	if len(cfg.LocalBank) == 0 {
		return nil, ErrEmptyLocalBank
	}
	localIDs := make(map[string]bool, len(cfg.LocalBank))
	local := uniqueIDs(cfg.LocalBank, localIDs)
	for i := range local {
		local[i] = local[i].Clone()
	}
	e := &Engine{
		userBank:    cfg.UserBank,
		local:       local,
		localIDs:    localIDs,
		feed:        cfg.Feed,
		provider:    cfg.Provider,
		rng:         cfg.Rand,
		callTimeout: cfg.CallTimeout,
	}
	if e.provider == nil {
		e.provider = provider.Disabled{}
	}
	if e.rng == nil {
		e.rng = NewRand()
	}
	if e.callTimeout <= 0 {
		e.callTimeout = defaultCallTimeout
	}
	return e, nil
}

type origin int

const (
	fromUser origin = iota
	fromLocal
	fromLive
	fromGenerated
)

type candidate struct {
	q      models.Question
	origin origin
}

// fresh candidates were produced for this call and never pass the consumed filter.
func (c candidate) fresh() bool {
	return c.origin == fromLive || c.origin == fromGenerated
}

// Supply returns exactly count questions for sel with shuffled options and
// records every returned id in consumed. Feed and provider failures only
// shrink the fresh part of the pool; the local bank backfills the rest.
func (e *Engine) Supply(ctx context.Context, consumed *ConsumedSet, sel models.Selector, count int) []models.Question {
	if count <= 0 {
		return []models.Question{}
	}
	if consumed == nil {
		consumed = NewConsumedSet()
	}

	bankIDs := make(map[string]bool, len(e.localIDs))
	for id := range e.localIDs {
		bankIDs[id] = true
	}
	var user []models.Question
	if e.userBank != nil {
		user = uniqueIDs(e.userBank.Read(ctx), bankIDs)
	}
	pool := make([]candidate, 0, len(user)+len(e.local))
	pool = appendEligible(pool, user, fromUser, sel, consumed)
	pool = appendEligible(pool, e.local, fromLocal, sel, consumed)

	live := e.fetchLive(ctx, sel, count)
	for _, q := range live {
		pool = append(pool, candidate{q: q, origin: fromLive})
	}

	if shortfall := count - len(pool); shortfall > 0 {
		generated, err := e.synthesize(ctx, provider.Request{
			Instruction: provider.ShortfallInstruction(shortfall, sel.Label),
			Topic:       fallbackTopic(sel),
		})
		if err != nil {
			log.Printf("⚠️ Shortfall generation for %s failed: %v", sel, err)
		}
		for _, q := range generated {
			pool = append(pool, candidate{q: q, origin: fromGenerated})
		}
	}

	pool = dedupe(pool)

	result := make([]models.Question, 0, count)
	taken := make(map[string]bool, count)
	counts := make(map[origin]int, 4)
	for _, i := range e.rng.Perm(len(pool)) {
		if len(result) == count {
			break
		}
		c := pool[i]
		if c.fresh() {
			if taken[c.q.ID] || bankIDs[c.q.ID] || consumed.Has(c.q.ID) {
				c.q.ID = fmt.Sprintf("%s-%s", c.q.ID, shortID())
			}
			consumed.Add(c.q.ID)
		} else if !consumed.Acquire(c.q.ID) {
			continue
		}
		taken[c.q.ID] = true
		counts[c.origin]++
		result = append(result, c.q)
	}

	backfilled := count - len(result)
	result = e.backfill(result, sel, count)

	for i := range result {
		result[i] = ShuffleOptions(result[i], e.rng)
	}

	log.Printf("🎯 Supplied %d questions for %s (user=%d local=%d live=%d generated=%d backfill=%d)",
		len(result), sel, counts[fromUser], counts[fromLocal], counts[fromLive], counts[fromGenerated], backfilled)
	return result
}

func appendEligible(pool []candidate, qs []models.Question, o origin, sel models.Selector, consumed *ConsumedSet) []candidate {
	for _, q := range qs {
		if !sel.Matches(q) || consumed.Has(q.ID) {
			continue
		}
		pool = append(pool, candidate{q: q.Clone(), origin: o})
	}
	return pool
}

// dedupe keeps the first candidate of every content identity. The pool is
// built in source order, so user beats local beats live beats generated.
func dedupe(pool []candidate) []candidate {
	seen := make(map[string]bool, len(pool))
	out := pool[:0]
	for _, c := range pool {
		id := c.q.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, c)
	}
	return out
}

// backfill tops result up to count with clones of local questions, visited
// round-robin. Eligible questions not yet in the result come first, then other
// unused ones, then the rest. Clone ids are single-use and are not recorded as
// consumed.
func (e *Engine) backfill(result []models.Question, sel models.Selector, count int) []models.Question {
	if len(result) >= count {
		return result
	}
	present := make(map[string]bool, len(result))
	for _, q := range result {
		present[q.Identity()] = true
	}

	order := make([]models.Question, 0, len(e.local))
	for _, q := range e.local {
		if !present[q.Identity()] && sel.Matches(q) {
			order = append(order, q)
		}
	}
	for _, q := range e.local {
		if !present[q.Identity()] && !sel.Matches(q) {
			order = append(order, q)
		}
	}
	for _, q := range e.local {
		if present[q.Identity()] {
			order = append(order, q)
		}
	}

	for n := 0; len(result) < count; n++ {
		clone := order[n%len(order)].Clone()
		clone.ID = fmt.Sprintf("%s-auto-%d-%s", clone.ID, n, shortID())
		result = append(result, clone)
	}
	return result
}

// uniqueIDs returns copies of qs whose ids are unique among themselves and
// absent from used, which is updated in place. A colliding question gets an id
// derived from its content, so it keeps that id across calls and its consumed
// state is tracked.
func uniqueIDs(qs []models.Question, used map[string]bool) []models.Question {
	out := make([]models.Question, len(qs))
	for i, q := range qs {
		if q.ID == "" || used[q.ID] {
			q.ID = derivedID(q, used)
		}
		used[q.ID] = true
		out[i] = q
	}
	return out
}

func derivedID(q models.Question, used map[string]bool) string {
	for n := 0; ; n++ {
		sum := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#%d", q.Identity(), n)))
		id := fmt.Sprintf("%s-%s", q.ID, sum.String()[:8])
		if q.ID == "" {
			id = sum.String()[:8]
		}
		if !used[id] {
			return id
		}
	}
}

func shortID() string {
	return uuid.NewString()[:8]
}

// fallbackTopic tags provider output that arrives without a usable topic.
func fallbackTopic(sel models.Selector) models.Topic {
	switch sel.Kind {
	case models.SelectTopic:
		return sel.Topic
	case models.SelectDaily:
		return models.CurrentAffairs
	default:
		return models.StaticGK
	}
}

func (e *Engine) synthesize(ctx context.Context, req provider.Request) ([]models.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	return e.provider.Synthesize(ctx, req)
}
