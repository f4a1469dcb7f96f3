package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap/zaptest"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/assetstore"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/handlers"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/httpserver"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/lesson"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/resolver"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/session"
)

// newTestServer wires the full stack with a nil remote tier so every
// resolve comes from the parametric synthesizer.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zaptest.NewLogger(t)
	dataDir := t.TempDir()

	index, err := assetstore.NewFileIndex(filepath.Join(dataDir, "primitives.json"))
	if err != nil {
		t.Fatalf("NewFileIndex: %v", err)
	}
	store, err := assetstore.New(filepath.Join(dataDir, "assets"), index, logger)
	if err != nil {
		t.Fatalf("assetstore.New: %v", err)
	}
	res := resolver.New(store, nil, resolver.Config{}, logger)

	sessions, err := session.NewStore(filepath.Join(dataDir, "sessions"))
	if err != nil {
		t.Fatalf("session.NewStore: %v", err)
	}

	mux := chi.NewMux()
	httpserver.SetupRouter(
		mux,
		logger,
		handlers.NewPrimitiveHandler(res, store),
		handlers.NewLessonHandler(lesson.NewHeuristicExtractor(), res, dataDir),
		handlers.NewSessionHandler(sessions),
	)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func getURL(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestResolvePrimitiveEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/primitives/resolve",
		`{"primitive_id":"resistor","params":{"value":"10kΩ"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}

	var asset assetstore.Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		t.Fatalf("decode asset: %v", err)
	}
	if !strings.HasPrefix(asset.URL, "/assets/resistor_") {
		t.Fatalf("asset URL = %q", asset.URL)
	}
	if asset.RenderMeta.Confidence != 0.5 {
		t.Fatalf("confidence = %v", asset.RenderMeta.Confidence)
	}
	if !strings.Contains(asset.SVG, "10kΩ") {
		t.Fatalf("inline content missing the value label")
	}

	// The URL in the response serves the same blob.
	blobResp, blob := getURL(t, srv.URL+asset.URL)
	if blobResp.StatusCode != http.StatusOK {
		t.Fatalf("asset fetch status = %d", blobResp.StatusCode)
	}
	if ct := blobResp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if string(blob) != asset.SVG {
		t.Fatalf("served blob differs from inline content")
	}
}

func TestResolvePrimitiveBadRequest(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/primitives/resolve", `{"params":{}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing primitive_id: status = %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, srv.URL+"/api/primitives/resolve", `not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d", resp.StatusCode)
	}
}

func TestAssetNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := getURL(t, srv.URL+"/assets/resistor_deadbeef.svg")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing blob: status = %d", resp.StatusCode)
	}
}

func TestGenerateLessonEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/generate_lesson",
		`{"prompt":"Explain Ohm's law with a resistor"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}

	var out struct {
		Status   string             `json:"status"`
		LessonID string             `json:"lesson_id"`
		Lesson   *lesson.Lesson     `json:"lesson"`
		Assets   []assetstore.Asset `json:"assets"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Status != "success" || len(out.LessonID) != 8 {
		t.Fatalf("unexpected envelope: status=%q lesson_id=%q", out.Status, out.LessonID)
	}
	if out.Lesson == nil || len(out.Lesson.Steps) == 0 {
		t.Fatalf("lesson missing steps")
	}
	if len(out.Assets) != len(out.Lesson.Primitives) {
		t.Fatalf("assets (%d) should match primitives (%d)",
			len(out.Assets), len(out.Lesson.Primitives))
	}

	// The persisted lesson is retrievable by id.
	getResp, getBody := getURL(t, srv.URL+"/api/lesson/"+out.LessonID)
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("lesson fetch status = %d", getResp.StatusCode)
	}
	var stored struct {
		LessonID string `json:"lesson_id"`
	}
	if err := json.Unmarshal(getBody, &stored); err != nil {
		t.Fatalf("decode stored lesson: %v", err)
	}
	if stored.LessonID != out.LessonID {
		t.Fatalf("stored lesson id = %q, want %q", stored.LessonID, out.LessonID)
	}
}

func TestGetLessonNotFound(t *testing.T) {
	srv := newTestServer(t)

	for _, id := range []string{"00000000", "nope", "DEADBEEF"} {
		resp, _ := getURL(t, srv.URL+"/api/lesson/"+id)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("lesson %q: status = %d", id, resp.StatusCode)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/session", `{"topic":"circuits"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d, body: %s", resp.StatusCode, body)
	}
	var created session.Session
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if len(created.SessionID) != 8 || created.Topic != "circuits" {
		t.Fatalf("unexpected session: %+v", created)
	}

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/session/"+created.SessionID,
		strings.NewReader(`{"lesson_id":"abc12345","messages":[{"role":"user","content":"hi"}]}`))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT session: %v", err)
	}
	defer putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", putResp.StatusCode)
	}

	getResp, getBody := getURL(t, srv.URL+"/api/session/"+created.SessionID)
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", getResp.StatusCode)
	}
	var fetched session.Session
	if err := json.Unmarshal(getBody, &fetched); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if fetched.LessonID != "abc12345" || len(fetched.Messages) != 1 {
		t.Fatalf("update not visible: %+v", fetched)
	}

	listResp, listBody := getURL(t, srv.URL+"/api/sessions")
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", listResp.StatusCode)
	}
	var listed struct {
		Sessions []session.Session `json:"sessions"`
	}
	if err := json.Unmarshal(listBody, &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Sessions) != 1 || listed.Sessions[0].SessionID != created.SessionID {
		t.Fatalf("unexpected list: %+v", listed.Sessions)
	}
}

func TestSessionCreateRequiresTopic(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/session", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, body := getURL(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz: %d %q", resp.StatusCode, body)
	}
}
