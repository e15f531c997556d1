package display_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"lectern/internal/collection"
	"lectern/internal/display"
	"lectern/internal/item"
	"lectern/internal/resolve"
	"lectern/internal/store"
	"lectern/internal/testsupport"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store, *collection.Service) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := collection.NewService(st, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := display.NewHub(nil)
	go hub.Run(ctx)

	server := display.NewServer(st, svc, resolve.NewResolver(st), hub, nil)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts, st, svc
}

func seedQueue(t *testing.T, st *store.Store, svc *collection.Service, contents ...string) {
	t.Helper()
	ctx := context.Background()
	queue, err := st.QueueCollection(ctx)
	if err != nil {
		t.Fatalf("QueueCollection failed: %v", err)
	}
	for _, content := range contents {
		if _, err := svc.Append(ctx, queue.ID, collection.SlidePayload{Kind: item.SlideAnnouncement, Content: content}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
}

func postJSON(t *testing.T, url string, body any) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s returned %d", url, resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return out
}

func TestAdvanceOverQueue(t *testing.T) {
	ts, st, svc := newTestServer(t)
	seedQueue(t, st, svc, "first", "second")

	first := postJSON(t, ts.URL+"/api/next", nil)
	if first["state"] != "live" {
		t.Fatalf("expected live after first next, got %v", first)
	}
	frame := first["frame"].(map[string]any)
	if frame["body"] != "first" {
		t.Fatalf("unexpected first frame: %v", frame)
	}

	postJSON(t, ts.URL+"/api/next", nil)
	last := postJSON(t, ts.URL+"/api/next", nil)
	if last["state"] != "hidden" {
		t.Fatalf("next past the end must hide, got %v", last)
	}

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET state failed: %v", err)
	}
	defer resp.Body.Close()
	var state map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if state["state"] != "hidden" {
		t.Fatalf("unexpected state: %v", state)
	}
}

func TestQueueEndpointProjectsFrames(t *testing.T) {
	ts, st, svc := newTestServer(t)
	seedQueue(t, st, svc, "only")

	resp, err := http.Get(ts.URL + "/api/queue")
	if err != nil {
		t.Fatalf("GET queue failed: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Frames []map[string]any `json:"frames"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(body.Frames) != 1 || body.Frames[0]["kind"] != "announcement" {
		t.Fatalf("unexpected queue projection: %+v", body.Frames)
	}
}

func TestPresentUnknownFrame(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(map[string]any{"itemId": 999, "subIndex": 0})
	resp, err := http.Post(ts.URL+"/api/present", "application/json", &buf)
	if err != nil {
		t.Fatalf("POST present failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown frame, got %d", resp.StatusCode)
	}
}

func TestWebsocketReceivesStateChanges(t *testing.T) {
	ts, st, svc := newTestServer(t)
	seedQueue(t, st, svc, "slide one")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// First message is the catch-up snapshot.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var hello map[string]any
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("reading catch-up event: %v", err)
	}
	if hello["state"] != "hidden" {
		t.Fatalf("unexpected catch-up state: %v", hello)
	}

	postJSON(t, ts.URL+"/api/next", nil)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event map[string]any
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("reading broadcast event: %v", err)
	}
	if event["state"] != "live" {
		t.Fatalf("expected live broadcast, got %v", event)
	}
}

func TestWebsocketCatchUpCarriesLiveFrame(t *testing.T) {
	ts, st, svc := newTestServer(t)
	seedQueue(t, st, svc, "slide one", "slide two")

	// Go live before any display connects.
	postJSON(t, ts.URL+"/api/next", nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var hello map[string]any
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("reading catch-up event: %v", err)
	}
	if hello["state"] != "live" {
		t.Fatalf("unexpected catch-up state: %v", hello)
	}
	frame, ok := hello["frame"].(map[string]any)
	if !ok || frame["body"] != "slide one" {
		t.Fatalf("catch-up must carry the live frame, got %v", hello)
	}
}
