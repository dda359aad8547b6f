package supply

import (
	"context"
	"log"

	"github.com/avinash937288-ai/verdi-app/pkg/livefeed"
	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/provider"
)

type liveRoute struct {
	kind        livefeed.Kind
	limit       int
	topic       models.Topic
	instruction func(count int, raw string) string
}

var (
	dailyRoute = liveRoute{
		kind:        livefeed.TodayQuiz,
		limit:       20,
		topic:       models.CurrentAffairs,
		instruction: provider.TodayQuizInstruction,
	}
	historyRoute = liveRoute{
		kind:        livefeed.HistoryOfToday,
		limit:       10,
		topic:       models.History,
		instruction: provider.HistoryInstruction,
	}
	currentAffairsRoute = liveRoute{
		kind:        livefeed.InternationalToday,
		limit:       15,
		topic:       models.CurrentAffairs,
		instruction: provider.CurrentAffairsInstruction,
	}
)

// routeFor reports which live feed, if any, backs a selector.
func routeFor(sel models.Selector) (liveRoute, bool) {
	switch {
	case sel.Kind == models.SelectDaily:
		return dailyRoute, true
	case sel.Kind == models.SelectTopic && sel.Topic == models.History:
		return historyRoute, true
	case sel.Kind == models.SelectTopic && sel.Topic == models.CurrentAffairs:
		return currentAffairsRoute, true
	}
	return liveRoute{}, false
}

// fetchLive makes at most one feed call and one provider call. Any failure
// yields no live questions.
func (e *Engine) fetchLive(ctx context.Context, sel models.Selector, count int) []models.Question {
	route, ok := routeFor(sel)
	if !ok || e.feed == nil {
		return nil
	}
	n := count
	if n > route.limit {
		n = route.limit
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	raw, err := e.feed.Fetch(fetchCtx, route.kind)
	cancel()
	if err != nil {
		log.Printf("⚠️ Live feed %s failed: %v", route.kind, err)
		return nil
	}
	if raw == "" {
		return nil
	}

	qs, err := e.synthesize(ctx, provider.Request{
		Instruction: route.instruction(n, raw),
		Topic:       route.topic,
	})
	if err != nil {
		log.Printf("⚠️ Live questions from %s failed: %v", route.kind, err)
		return nil
	}
	if len(qs) > n {
		qs = qs[:n]
	}
	return qs
}
