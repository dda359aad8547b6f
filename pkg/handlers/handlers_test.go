package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/avinash937288-ai/verdi-app/pkg/bank"
	"github.com/avinash937288-ai/verdi-app/pkg/models"
	"github.com/avinash937288-ai/verdi-app/pkg/models/modeltest"
	"github.com/avinash937288-ai/verdi-app/pkg/provider"
	"github.com/avinash937288-ai/verdi-app/pkg/samples"
	"github.com/avinash937288-ai/verdi-app/pkg/services"
	"github.com/avinash937288-ai/verdi-app/pkg/supply"
	websocketHub "github.com/avinash937288-ai/verdi-app/pkg/websocket"
)

type stubProvider struct {
	out []models.Question
}

func (p *stubProvider) Synthesize(context.Context, provider.Request) ([]models.Question, error) {
	if p.out == nil {
		return nil, provider.ErrProviderUnavailable
	}
	return p.out, nil
}

type testServer struct {
	client   *fasthttp.Client
	ln       *fasthttputil.InmemoryListener
	provider *stubProvider
}

func startServer(t *testing.T) *testServer {
	t.Helper()
	store := bank.NewMemoryStore()
	userBank := bank.New(store)
	p := &stubProvider{}

	engine, err := supply.NewEngine(supply.Config{
		UserBank:  userBank,
		LocalBank: samples.Questions(),
		Provider:  p,
		Rand:      supply.NewSeededRand(3),
	})
	require.NoError(t, err)

	questionService := services.NewQuestionService(engine, userBank, p, nil)
	sessionService := services.NewSessionService(questionService, time.Hour)
	adminState := services.NewAdminStateService(store, questionService)
	hub := websocketHub.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	router := NewRouter(
		NewQuestionHandler(questionService),
		NewSessionHandler(sessionService),
		NewAdminHandler(questionService, adminState, hub),
	)

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: router.Handle}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() { ln.Close() })

	return &testServer{
		client: &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
		},
		ln:       ln,
		provider: p,
	}
}

// call performs a request and decodes the envelope, with Data left raw.
func (s *testServer) call(t *testing.T, method, path string, body interface{}) (int, models.APIResponse, json.RawMessage) {
	t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://vardi.test" + path)
	req.Header.SetMethod(method)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req.Header.SetContentType("application/json")
		req.SetBody(data)
	}
	require.NoError(t, s.client.DoTimeout(req, resp, 5*time.Second))

	var envelope struct {
		models.APIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body(), &envelope), string(resp.Body()))
	return resp.StatusCode(), envelope.APIResponse, envelope.Data
}

func TestCatalogueEndpoints(t *testing.T) {
	s := startServer(t)

	status, resp, data := s.call(t, fasthttp.MethodGet, "/api/topics", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	require.True(t, resp.Success)
	var topics []models.TopicInfo
	require.NoError(t, json.Unmarshal(data, &topics))
	require.Len(t, topics, len(models.Topics))

	_, _, data = s.call(t, fasthttp.MethodGet, "/api/mocks", nil)
	var mocks []models.MockTestMeta
	require.NoError(t, json.Unmarshal(data, &mocks))
	require.Len(t, mocks, 20)
	require.Equal(t, "mock-1", mocks[0].ID)

	_, _, data = s.call(t, fasthttp.MethodGet, "/api/leaderboard", nil)
	var board models.LeaderboardResponse
	require.NoError(t, json.Unmarshal(data, &board))
	require.Equal(t, len(samples.Leaderboard), board.TotalPlayers)

	status, resp, _ = s.call(t, fasthttp.MethodGet, "/api/health", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	require.True(t, resp.Success)

	status, resp, _ = s.call(t, fasthttp.MethodGet, "/api/nothing", nil)
	require.Equal(t, fasthttp.StatusNotFound, status)
	require.False(t, resp.Success)
}

func TestSupplyEndpoint(t *testing.T) {
	s := startServer(t)

	status, _, data := s.call(t, fasthttp.MethodPost, "/api/questions/supply", map[string]interface{}{
		"selector": "General Science",
		"count":    5,
	})
	require.Equal(t, fasthttp.StatusOK, status)
	var out models.QuestionResponse
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, 5, out.Count)
	require.Len(t, out.Questions, 5)

	status, resp, _ := s.call(t, fasthttp.MethodPost, "/api/questions/supply", map[string]interface{}{
		"selector": "Astrology",
		"count":    5,
	})
	require.Equal(t, fasthttp.StatusBadRequest, status)
	require.Contains(t, resp.Error, "unknown topic")

	status, _, _ = s.call(t, fasthttp.MethodPost, "/api/questions/supply", map[string]interface{}{
		"selector": "History",
		"count":    0,
	})
	require.Equal(t, fasthttp.StatusBadRequest, status)
}

func TestSessionLifecycle(t *testing.T) {
	s := startServer(t)

	status, resp, data := s.call(t, fasthttp.MethodPost, "/api/sessions", map[string]interface{}{
		"kind":  "SPRINT",
		"topic": "History",
	})
	require.Equal(t, fasthttp.StatusOK, status, resp.Error)
	var session models.TestSession
	require.NoError(t, json.Unmarshal(data, &session))
	require.Len(t, session.Questions, models.SprintQuestions)
	base := "/api/sessions/" + session.ID

	correct := session.Questions[0].CorrectOptionIndex
	status, _, _ = s.call(t, fasthttp.MethodPost, base+"/answer", map[string]interface{}{"index": 0, "option": correct})
	require.Equal(t, fasthttp.StatusOK, status)

	status, _, _ = s.call(t, fasthttp.MethodPost, base+"/answer", map[string]interface{}{"index": 0, "option": 7})
	require.Equal(t, fasthttp.StatusBadRequest, status)
	status, _, _ = s.call(t, fasthttp.MethodPost, base+"/answer", map[string]interface{}{"index": 0})
	require.Equal(t, fasthttp.StatusBadRequest, status)
	status, _, _ = s.call(t, fasthttp.MethodPost, base+"/answer", map[string]interface{}{"index": 99, "option": 1})
	require.Equal(t, fasthttp.StatusBadRequest, status)

	status, _, _ = s.call(t, fasthttp.MethodGet, base+"/result", nil)
	require.Equal(t, fasthttp.StatusConflict, status)

	status, _, data = s.call(t, fasthttp.MethodPost, base+"/finish", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	require.NoError(t, json.Unmarshal(data, &session))
	require.NotNil(t, session.Score)
	require.GreaterOrEqual(t, *session.Score, 1)
	require.Contains(t, samples.ClosingQuotes, session.ClosingQuote)

	status, _, _ = s.call(t, fasthttp.MethodPost, base+"/finish", nil)
	require.Equal(t, fasthttp.StatusConflict, status)

	status, _, data = s.call(t, fasthttp.MethodGet, base+"/result", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	var result models.SessionResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.Equal(t, models.SprintQuestions, result.Total)
	require.NotEmpty(t, result.Summary)

	status, _, _ = s.call(t, fasthttp.MethodDelete, base, nil)
	require.Equal(t, fasthttp.StatusOK, status)
	status, _, _ = s.call(t, fasthttp.MethodGet, base, nil)
	require.Equal(t, fasthttp.StatusNotFound, status)
}

func TestCreateSessionValidation(t *testing.T) {
	s := startServer(t)

	for _, body := range []map[string]interface{}{
		{"kind": "SPRINT"},
		{"kind": "MOCK"},
		{"kind": "BLITZ"},
		{"kind": "MOCK", "mockId": "mock-404"},
	} {
		status, resp, _ := s.call(t, fasthttp.MethodPost, "/api/sessions", body)
		require.Equal(t, fasthttp.StatusBadRequest, status, body)
		require.False(t, resp.Success)
	}
}

func TestAdminImportsAndWebsocket(t *testing.T) {
	s := startServer(t)

	dialer := websocket.Dialer{
		NetDial: func(network, addr string) (net.Conn, error) { return s.ln.Dial() },
	}
	conn, _, err := dialer.Dial("ws://vardi.test/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	readEvent := func() websocketHub.Message {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg websocketHub.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}
	// The client is registered before the initial state is written.
	require.Equal(t, websocketHub.EventAdminState, readEvent().Type)

	s.provider.out = modeltest.Questions("ups", models.UPSpecial, 3)
	status, resp, data := s.call(t, fasthttp.MethodPost, "/api/admin/import", map[string]string{"content": "UP districts and divisions"})
	require.Equal(t, fasthttp.StatusOK, status, resp.Error)
	var result models.ImportResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.Equal(t, 3, result.Stored)

	msg := readEvent()
	require.Equal(t, websocketHub.EventBankUpdated, msg.Type)

	image := base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff})
	s.provider.out = []models.Question{modeltest.Question("ocr-1", models.Culture, "Which dance form is from Uttar Pradesh?")}
	status, _, _ = s.call(t, fasthttp.MethodPost, "/api/admin/ocr", map[string]string{"image": image})
	require.Equal(t, fasthttp.StatusOK, status)
	require.Equal(t, websocketHub.EventBankUpdated, readEvent().Type)

	status, _, _ = s.call(t, fasthttp.MethodPost, "/api/admin/ocr", map[string]string{"image": "###"})
	require.Equal(t, fasthttp.StatusBadRequest, status)

	status, _, data = s.call(t, fasthttp.MethodGet, "/api/admin/bank", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	var state models.AdminState
	require.NoError(t, json.Unmarshal(data, &state))
	require.Equal(t, 4, state.BankCount)
	require.Len(t, state.LastImports, 2)

	status, _, data = s.call(t, fasthttp.MethodPost, "/api/admin/bridge", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	var report models.BridgeReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Equal(t, 1000, report.Fetched)
	require.Equal(t, websocketHub.EventBridgeSync, readEvent().Type)

	status, _, _ = s.call(t, fasthttp.MethodDelete, "/api/admin/bank", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	require.Equal(t, websocketHub.EventBankUpdated, readEvent().Type)

	_, _, data = s.call(t, fasthttp.MethodGet, "/api/admin/bank", nil)
	require.NoError(t, json.Unmarshal(data, &state))
	require.Equal(t, 0, state.BankCount)
}

func TestImportWithoutProvider(t *testing.T) {
	s := startServer(t)
	status, resp, _ := s.call(t, fasthttp.MethodPost, "/api/admin/import", map[string]string{"content": "notes"})
	require.Equal(t, fasthttp.StatusServiceUnavailable, status)
	require.False(t, resp.Success)
}
