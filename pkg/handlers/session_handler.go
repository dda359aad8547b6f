package handlers

import (
	"fmt"

	"github.com/valyala/fasthttp"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/services"
)

// SessionHandler serves the test session lifecycle.
type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(ctx *fasthttp.RequestCtx) {
	var request models.SessionCreateRequest
	if !decodeBody(ctx, &request) {
		return
	}

	session, err := h.sessionService.CreateSession(ctx, request)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, session, fmt.Sprintf("%s session created", session.Kind))
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(ctx *fasthttp.RequestCtx) {
	session, err := h.sessionService.GetSession(sessionID(ctx))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, session, "Session retrieved")
}

// SubmitAnswer handles POST /api/sessions/{id}/answer
func (h *SessionHandler) SubmitAnswer(ctx *fasthttp.RequestCtx) {
	var request models.AnswerRequest
	if !decodeBody(ctx, &request) {
		return
	}

	session, err := h.sessionService.SubmitAnswer(sessionID(ctx), request.Index, *request.Option)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, session, "Answer saved")
}

// FinishSession handles POST /api/sessions/{id}/finish
func (h *SessionHandler) FinishSession(ctx *fasthttp.RequestCtx) {
	session, err := h.sessionService.FinishSession(sessionID(ctx))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, session, fmt.Sprintf("Session finished with %d/%d", *session.Score, len(session.Questions)))
}

// GetResult handles GET /api/sessions/{id}/result
func (h *SessionHandler) GetResult(ctx *fasthttp.RequestCtx) {
	result, err := h.sessionService.GetResult(sessionID(ctx))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, result, "Result retrieved")
}

// DiscardSession handles DELETE /api/sessions/{id}
func (h *SessionHandler) DiscardSession(ctx *fasthttp.RequestCtx) {
	if err := h.sessionService.DiscardSession(sessionID(ctx)); err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, nil, "Session discarded")
}

func sessionID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
