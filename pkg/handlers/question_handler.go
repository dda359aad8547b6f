package handlers

import (
	"fmt"

	"github.com/valyala/fasthttp"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/samples"
	"github.com/avinash937288-ai/verdi-app/pkg/services"
)

// QuestionHandler serves the catalogue endpoints and direct question supply.
type QuestionHandler struct {
	questionService *services.QuestionService
}

func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// Supply handles POST /api/questions/supply
func (h *QuestionHandler) Supply(ctx *fasthttp.RequestCtx) {
	var request models.SupplyRequest
	if !decodeBody(ctx, &request) {
		return
	}

	sel, err := models.ParseSelector(request.Selector)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	questions := h.questionService.Supply(ctx, sel, request.Count)
	respondWithSuccess(ctx, models.QuestionResponse{
		Questions: questions,
		Count:     len(questions),
	}, fmt.Sprintf("%d questions supplied for %s", len(questions), sel))
}

// GetTopics handles GET /api/topics
func (h *QuestionHandler) GetTopics(ctx *fasthttp.RequestCtx) {
	respondWithSuccess(ctx, models.Topics, "Topics retrieved")
}

// GetMocks handles GET /api/mocks
func (h *QuestionHandler) GetMocks(ctx *fasthttp.RequestCtx) {
	respondWithSuccess(ctx, models.MockTests(), "Mock tests retrieved")
}

// GetLeaderboard handles GET /api/leaderboard
func (h *QuestionHandler) GetLeaderboard(ctx *fasthttp.RequestCtx) {
	respondWithSuccess(ctx, models.LeaderboardResponse{
		Leaderboard:  samples.Leaderboard,
		TotalPlayers: len(samples.Leaderboard),
	}, "Leaderboard retrieved")
}

// HealthCheck handles GET /api/health
func (h *QuestionHandler) HealthCheck(ctx *fasthttp.RequestCtx) {
	if err := h.questionService.HealthCheck(ctx); err != nil {
		respondWithError(ctx, fasthttp.StatusServiceUnavailable, fmt.Sprintf("Service unavailable: %v", err))
		return
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"status":   "healthy",
		"bank":     h.questionService.BankCount(ctx),
		"consumed": h.questionService.ConsumedCount(),
	}, "Service is running")
}
