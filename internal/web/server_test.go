package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenx/internal/core/clock"
	"greenx/internal/core/gate"
	"greenx/internal/core/model"
	"greenx/internal/core/timekeeper"
	"greenx/internal/site"
	"greenx/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

// settableTime is a clock reading tests move in either direction.
type settableTime struct {
	mu sync.Mutex
	at time.Time
}

func (s *settableTime) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.at
}

func (s *settableTime) Set(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.at = at
}

type fixture struct {
	reading *settableTime
	keeper  *timekeeper.TimeKeeper
	hub     *Hub
	server  *Server
}

func newFixtureWithClock(t *testing.T, source clock.Clock) *fixture {
	t.Helper()
	siteConfig, err := storage.DefaultSite()
	require.NoError(t, err)

	keeper := timekeeper.New(siteConfig.Schedule, model.DefaultTimeKeeperConfig(), timekeeper.Config{
		Clock:  source,
		Logger: discardLogger(),
	})
	hub := NewHub(discardLogger())
	server, err := NewServer(siteConfig, keeper, hub, discardLogger())
	require.NoError(t, err)

	return &fixture{keeper: keeper, hub: hub, server: server}
}

func newFixture(t *testing.T, now string) *fixture {
	t.Helper()
	reading := &settableTime{at: mustParse(t, now)}
	f := newFixtureWithClock(t, clock.Func(reading.Now))
	f.reading = reading
	return f
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestIndexWhileLocked(t *testing.T) {
	f := newFixture(t, "2025-05-28T23:59:59+05:30")
	handler := f.server.Handler()

	w := get(t, handler, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "Problems Locked")
	assert.Contains(t, body, "0d 00h 00m 01s")
	assert.Contains(t, body, "Unlocks 29 May 2025 at 12:00 am")
	assert.Contains(t, body, "Unlocks 2 June 2025 at 11:59 pm")
	assert.NotContains(t, body, "Climate-Vegetation Dynamics")
	assert.NotContains(t, body, "https://forms.gle/XtbMSB2v4w58wz646")
	assert.Contains(t, body, "https://forms.gle/cpJdoQpAtenTg8nL9")
}

func TestIndexOnceUnlocked(t *testing.T) {
	f := newFixture(t, "2025-05-29T00:00:00+05:30")
	handler := f.server.Handler()

	w := get(t, handler, "/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.NotContains(t, body, "Problems Locked")
	assert.Contains(t, body, "Climate-Vegetation Dynamics")
	assert.Contains(t, body, `href="/problems/3"`)
	assert.Contains(t, body, "https://forms.gle/XtbMSB2v4w58wz646")
}

func TestProblemPageIsGated(t *testing.T) {
	f := newFixture(t, "2025-05-28T12:00:00+05:30")
	handler := f.server.Handler()

	assert.Equal(t, http.StatusNotFound, get(t, handler, "/problems/1").Code)

	f.reading.Set(mustParse(t, "2025-05-29T00:00:01+05:30"))

	w := get(t, handler, "/problems/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<strong>AI/ML, IoT, and web-based platform</strong>")

	assert.Equal(t, http.StatusNotFound, get(t, handler, "/problems/9").Code)
	assert.Equal(t, http.StatusNotFound, get(t, handler, "/problems/one").Code)

	// Once revealed, a clock that goes backwards does not hide it again.
	f.reading.Set(mustParse(t, "2025-05-01T00:00:00+05:30"))
	assert.Equal(t, http.StatusOK, get(t, handler, "/problems/1").Code)
}

func TestAPIProblem(t *testing.T) {
	f := newFixture(t, "2025-05-28T12:00:00+05:30")
	handler := f.server.Handler()

	w := get(t, handler, "/api/problems/2")
	require.Equal(t, http.StatusNotFound, w.Code)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "problem not found", errBody["error"])

	assert.Equal(t, http.StatusBadRequest, get(t, handler, "/api/problems/two").Code)

	f.reading.Set(mustParse(t, "2025-06-01T00:00:00+05:30"))
	w = get(t, handler, "/api/problems/2")
	require.Equal(t, http.StatusOK, w.Code)
	var problem site.ProblemView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, 2, problem.ID)
	assert.Equal(t, "River Health Monitoring & Intervention", problem.Title)
}

func TestAPIGates(t *testing.T) {
	f := newFixture(t, "2025-06-02T23:58:00+05:30")

	w := get(t, f.server.Handler(), "/api/gates")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var snapshot timekeeper.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.True(t, snapshot.Flag.Unlocked)
	assert.Equal(t, "problems", snapshot.Flag.Name)
	require.Len(t, snapshot.Timeline, 6)
	assert.False(t, snapshot.Timeline[0].Locked)
	assert.True(t, snapshot.Timeline[1].Locked)
	assert.False(t, snapshot.Timeline[2].Locked)
	assert.Equal(t, "2 June 2025 at 11:59 pm", snapshot.Timeline[1].DisplayText)
}

func TestHealthAndStatic(t *testing.T) {
	f := newFixture(t, "2025-05-28T12:00:00+05:30")
	handler := f.server.Handler()

	w := get(t, handler, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(t, handler, "/static/greenx.css")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/css"))

	assert.Equal(t, http.StatusNotFound, get(t, handler, "/nope").Code)
}

func readEvent(t *testing.T, conn *websocket.Conn) timekeeper.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	var event timekeeper.Event
	require.NoError(t, json.Unmarshal(message, &event))
	return event
}

func TestWebsocketStreamsUnlock(t *testing.T) {
	fake := clockwork.NewFakeClockAt(mustParse(t, "2025-05-28T23:59:59+05:30"))
	f := newFixtureWithClock(t, fake)
	events := f.keeper.Subscribe(16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.hub.Run(ctx)

	f.keeper.Start()
	defer f.keeper.Stop()
	go f.hub.Forward(ctx, events)

	ts := httptest.NewServer(f.server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	initial := readEvent(t, conn)
	assert.Equal(t, timekeeper.EventTimeline, initial.Type)
	assert.False(t, initial.Snapshot.Flag.Unlocked)
	assert.Equal(t, gate.Countdown{Seconds: 1}, initial.Snapshot.Flag.Countdown)
	require.Eventually(t, func() bool { return f.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	tickersCtx, cancelTickers := context.WithTimeout(ctx, 2*time.Second)
	defer cancelTickers()
	require.NoError(t, fake.BlockUntilContext(tickersCtx, 2))
	fake.Advance(time.Second)

	var unlock timekeeper.Event
	for i := 0; i < 10; i++ {
		event := readEvent(t, conn)
		if event.Type == timekeeper.EventUnlock {
			unlock = event
			break
		}
	}
	assert.Equal(t, "problems", unlock.Gate)
	assert.Equal(t, timekeeper.StateUnlocked, unlock.State)
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	f := newFixture(t, "2025-05-28T12:00:00+05:30")

	ctx, cancel := context.WithCancel(context.Background())
	go f.hub.Run(ctx)

	ts := httptest.NewServer(f.server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readEvent(t, conn)
	require.Eventually(t, func() bool { return f.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.Equal(t, 0, f.hub.ClientCount())

	// A stopped hub neither blocks broadcasters nor accepts clients.
	done := make(chan struct{})
	go func() {
		f.hub.Broadcast([]byte(`{}`))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a stopped hub")
	}
}
