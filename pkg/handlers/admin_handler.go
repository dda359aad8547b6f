package handlers

import (
	"fmt"
	"log"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"

	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/services"
	websocketHub "github.com/avinash937288-ai/verdi-app/pkg/websocket"
)

// AdminHandler serves the command center: bank management, imports, the
// bridge sync and the admin websocket.
type AdminHandler struct {
	questionService *services.QuestionService
	adminState      *services.AdminStateService
	hub             *websocketHub.Hub
}

func NewAdminHandler(questionService *services.QuestionService, adminState *services.AdminStateService, hub *websocketHub.Hub) *AdminHandler {
	return &AdminHandler{
		questionService: questionService,
		adminState:      adminState,
		hub:             hub,
	}
}

var upgrader = websocket.FastHTTPUpgrader{
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return true
	},
}

// HandleWebSocket handles GET /ws. New clients get the current admin state
// and then receive every broadcast event.
func (ah *AdminHandler) HandleWebSocket(ctx *fasthttp.RequestCtx) {
	state, stateErr := ah.adminState.GetState(ctx)

	err := upgrader.Upgrade(ctx, func(ws *websocket.Conn) {
		defer ws.Close()

		ah.hub.Register(ws)
		defer ah.hub.Unregister(ws)

		if stateErr == nil {
			if data, err := websocketHub.Encode(websocketHub.EventAdminState, state); err == nil {
				_ = ws.WriteMessage(websocket.TextMessage, data)
			}
		}

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}
	})

	if err != nil {
		log.Printf("⚠️ Error upgrading to websocket: %v", err)
	}
}

// GetBank handles GET /api/admin/bank
func (ah *AdminHandler) GetBank(ctx *fasthttp.RequestCtx) {
	state, err := ah.adminState.GetState(ctx)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, state, fmt.Sprintf("%d uploaded questions", state.BankCount))
}

// ClearBank handles DELETE /api/admin/bank
func (ah *AdminHandler) ClearBank(ctx *fasthttp.RequestCtx) {
	if err := ah.questionService.ClearBank(ctx); err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	ah.hub.BroadcastBankUpdate(0, "clear", 0)
	respondWithSuccess(ctx, nil, "User question bank cleared")
}

// BulkImport handles POST /api/admin/import
func (ah *AdminHandler) BulkImport(ctx *fasthttp.RequestCtx) {
	var request models.BulkImportRequest
	if !decodeBody(ctx, &request) {
		return
	}

	result, err := ah.questionService.BulkImport(ctx, request.Content)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	ah.afterImport(ctx, result)

	respondWithSuccess(ctx, result, fmt.Sprintf("Imported %d questions from your document", result.Stored))
}

// OCRImport handles POST /api/admin/ocr
func (ah *AdminHandler) OCRImport(ctx *fasthttp.RequestCtx) {
	var request models.OCRImportRequest
	if !decodeBody(ctx, &request) {
		return
	}

	result, err := ah.questionService.OCRImport(ctx, request.Image, request.MIMEType)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	ah.afterImport(ctx, result)

	respondWithSuccess(ctx, result, fmt.Sprintf("OCR complete, extracted %d questions", result.Extracted))
}

// SyncBridge handles POST /api/admin/bridge
func (ah *AdminHandler) SyncBridge(ctx *fasthttp.RequestCtx) {
	report, err := ah.adminState.SyncBridge(ctx)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	ah.hub.BroadcastMessage(websocketHub.EventBridgeSync, report)
	respondWithSuccess(ctx, report, report.Message)
}

func (ah *AdminHandler) afterImport(ctx *fasthttp.RequestCtx, result *models.ImportResult) {
	if err := ah.adminState.RecordImport(ctx, result); err != nil {
		log.Printf("⚠️ Error recording %s import: %v", result.Source, err)
	}
	ah.hub.BroadcastBankUpdate(ah.questionService.BankCount(ctx), result.Source, result.Stored)
}
