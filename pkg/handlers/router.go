package handlers

import (
	"log"
	"strings"

	"github.com/valyala/fasthttp"
)

// Router dispatches requests to the handlers.
type Router struct {
	questions *QuestionHandler
	sessions  *SessionHandler
	admin     *AdminHandler
}

func NewRouter(questions *QuestionHandler, sessions *SessionHandler, admin *AdminHandler) *Router {
	return &Router{questions: questions, sessions: sessions, admin: admin}
}

// Handle is the fasthttp request handler.
func (r *Router) Handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	log.Printf("📡 %s %s", method, path)

	ctx.Response.Header.Set("Server", "Vardi-FastHTTP/1.0")
	ctx.Response.Header.Set("Cache-Control", "no-cache")

	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if method == fasthttp.MethodOptions {
		ctx.SetStatusCode(fasthttp.StatusOK)
		return
	}

	switch {
	case path == "/api/health" && method == fasthttp.MethodGet:
		r.questions.HealthCheck(ctx)

	// Catalogue
	case path == "/api/topics" && method == fasthttp.MethodGet:
		r.questions.GetTopics(ctx)
	case path == "/api/mocks" && method == fasthttp.MethodGet:
		r.questions.GetMocks(ctx)
	case path == "/api/leaderboard" && method == fasthttp.MethodGet:
		r.questions.GetLeaderboard(ctx)
	case path == "/api/questions/supply" && method == fasthttp.MethodPost:
		r.questions.Supply(ctx)

	// Sessions
	case path == "/api/sessions" && method == fasthttp.MethodPost:
		r.sessions.CreateSession(ctx)
	case strings.HasPrefix(path, "/api/sessions/"):
		r.handleSessionRoutes(ctx, path, method)

	// Admin
	case path == "/api/admin/bank" && method == fasthttp.MethodGet:
		r.admin.GetBank(ctx)
	case path == "/api/admin/bank" && method == fasthttp.MethodDelete:
		r.admin.ClearBank(ctx)
	case path == "/api/admin/import" && method == fasthttp.MethodPost:
		r.admin.BulkImport(ctx)
	case path == "/api/admin/ocr" && method == fasthttp.MethodPost:
		r.admin.OCRImport(ctx)
	case path == "/api/admin/bridge" && method == fasthttp.MethodPost:
		r.admin.SyncBridge(ctx)

	case path == "/ws":
		r.admin.HandleWebSocket(ctx)

	default:
		serve404(ctx)
	}
}

// handleSessionRoutes covers /api/sessions/{id} and its sub-resources.
func (r *Router) handleSessionRoutes(ctx *fasthttp.RequestCtx, path, method string) {
	parts := strings.Split(strings.TrimPrefix(path, "/api/sessions/"), "/")
	if parts[0] == "" || len(parts) > 2 {
		serve404(ctx)
		return
	}
	ctx.SetUserValue("id", parts[0])

	if len(parts) == 1 {
		switch method {
		case fasthttp.MethodGet:
			r.sessions.GetSession(ctx)
		case fasthttp.MethodDelete:
			r.sessions.DiscardSession(ctx)
		default:
			serve404(ctx)
		}
		return
	}

	switch {
	case parts[1] == "answer" && method == fasthttp.MethodPost:
		r.sessions.SubmitAnswer(ctx)
	case parts[1] == "finish" && method == fasthttp.MethodPost:
		r.sessions.FinishSession(ctx)
	case parts[1] == "result" && method == fasthttp.MethodGet:
		r.sessions.GetResult(ctx)
	default:
		serve404(ctx)
	}
}

func serve404(ctx *fasthttp.RequestCtx) {
	respondWithError(ctx, fasthttp.StatusNotFound, "route not found: "+string(ctx.Method())+" "+string(ctx.Path()))
}
