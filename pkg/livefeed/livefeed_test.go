package livefeed

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func startFeed(t *testing.T, handler fasthttp.RequestHandler) *fasthttp.Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() { ln.Close() })
	return &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
}

func TestFetchSendsRapidAPIHeaders(t *testing.T) {
	var path, key, host string
	doer := startFeed(t, func(ctx *fasthttp.RequestCtx) {
		path = string(ctx.Path())
		key = string(ctx.Request.Header.Peek("x-rapidapi-key"))
		host = string(ctx.Request.Header.Peek("x-rapidapi-host"))
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`[{"date":"today","event":"Quit India Movement"}]`)
	})

	c := NewClient(Config{BaseURL: "http://feed.test/", APIKey: "secret"}, doer)
	body, err := c.Fetch(context.Background(), HistoryOfToday)
	require.NoError(t, err)
	require.Contains(t, body, "Quit India Movement")
	require.Equal(t, "/history-of-today", path)
	require.Equal(t, "secret", key)
	require.Equal(t, DefaultHost, host)
}

func TestFetchEmptyPayloads(t *testing.T) {
	for _, payload := range []string{"", "null", "[]", " {} "} {
		doer := startFeed(t, func(ctx *fasthttp.RequestCtx) {
			ctx.SetBodyString(payload)
		})
		body, err := NewClient(Config{BaseURL: "http://feed.test"}, doer).Fetch(context.Background(), TodayQuiz)
		require.NoError(t, err, payload)
		require.Empty(t, body, payload)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	doer := startFeed(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
	})
	_, err := NewClient(Config{BaseURL: "http://feed.test"}, doer).Fetch(context.Background(), InternationalToday)
	require.Error(t, err)
}

func TestFetchTimeout(t *testing.T) {
	doer := startFeed(t, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(300 * time.Millisecond)
		ctx.SetBodyString(`[1]`)
	})
	c := NewClient(Config{BaseURL: "http://feed.test", Timeout: 20 * time.Millisecond}, doer)
	_, err := c.Fetch(context.Background(), TodayQuiz)
	require.Error(t, err)
}

func TestFetchHonoursContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)

	c := NewClient(Config{BaseURL: "http://feed.test"}, nil)
	_, err := c.Fetch(ctx, TodayQuiz)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
