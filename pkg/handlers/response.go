package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/valyala/fasthttp"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/provider"
	"github.com/avinash937288-ai/verdi-app/pkg/services"
)

func respondWithJSON(ctx *fasthttp.RequestCtx, statusCode int, response interface{}) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.SetStatusCode(statusCode)

	jsonData, err := json.Marshal(response)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"success": false, "error": "error serializing response"}`)
		return
	}

	ctx.SetBody(jsonData)
}

func respondWithError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	respondWithJSON(ctx, statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func respondWithSuccess(ctx *fasthttp.RequestCtx, data interface{}, message string) {
	respondWithJSON(ctx, fasthttp.StatusOK, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondWithServiceError maps service errors onto HTTP status codes.
func respondWithServiceError(ctx *fasthttp.RequestCtx, err error) {
	status := fasthttp.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		status = fasthttp.StatusNotFound
	case errors.Is(err, services.ErrSessionFinished), errors.Is(err, services.ErrSessionNotFinished):
		status = fasthttp.StatusConflict
	case errors.Is(err, services.ErrAnswerOutOfRange),
		errors.Is(err, services.ErrUnknownMock),
		errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrInvalidImage),
		errors.Is(err, models.ErrUnknownTopic),
		errors.Is(err, models.ErrEmptySelector):
		status = fasthttp.StatusBadRequest
	case errors.Is(err, provider.ErrProviderUnavailable):
		status = fasthttp.StatusServiceUnavailable
	}
	if status == fasthttp.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", ctx.Method(), ctx.Path(), err)
	}
	respondWithError(ctx, status, err.Error())
}

// decodeBody unmarshals and validates a JSON request body. On failure it has
// already written the error response.
func decodeBody(ctx *fasthttp.RequestCtx, v interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON")
		return false
	}
	if err := models.ValidateStruct(v); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, err.Error())
		return false
	}
	return true
}
