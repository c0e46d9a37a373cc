package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"dmx-editor/api"
	"dmx-editor/controller"
	"dmx-editor/logging"
	"dmx-editor/preset"
	"dmx-editor/session"
)

// stubController serves the lighting controller endpoints the editor
// talks to.
type stubController struct {
	mu       sync.Mutex
	presets  string
	failIDs  map[int]bool
	received []int
}

func (c *stubController) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/presets", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		body := c.presets
		c.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("POST /api/config", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("POST /api/preset", func(w http.ResponseWriter, r *http.Request) {
		var p preset.Preset
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.failIDs[p.ID] {
			http.Error(w, "rejected", http.StatusInternalServerError)
			return
		}
		c.received = append(c.received, p.ID)
	})
	return mux
}

type testEnv struct {
	srv  *httptest.Server
	mgr  *session.Manager
	ctrl *stubController
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := &stubController{
		presets: `{"count":2,"presets":[{"id":1,"name":"Warm","values1":[10,20]},{"id":2,"name":"Cold","values2":[0,0,255]}]}`,
		failIDs: map[int]bool{},
	}
	ctrlSrv := httptest.NewServer(ctrl.handler())
	t.Cleanup(ctrlSrv.Close)

	client := controller.NewClient(ctrlSrv.URL, controller.WithTimeout(time.Second))
	mgr := session.NewManager(3)
	staticFS := fstest.MapFS{
		"index.html":    {Data: []byte("<html>editor</html>")},
		"assets/app.js": {Data: []byte("console.log('ok')")},
	}
	srv := httptest.NewServer(api.RegisterRoutes(mgr, client, logging.Discard(), staticFS))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, mgr: mgr, ctrl: ctrl}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestEnv(t).srv
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestListSessionsEmpty(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("expected json content-type, got %q", ct)
	}
	if sessions := decode[[]session.Info](t, resp); len(sessions) != 0 {
		t.Fatalf("expected 0 sessions, got %d", len(sessions))
	}
}

func TestCreateSession201(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", `{"name":"stage-left"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	info := decode[session.Info](t, resp)
	if info.Name != "stage-left" || info.ID == "" {
		t.Fatalf("unexpected session %+v", info)
	}
	if info.Count != 3 || info.Dirty {
		t.Fatalf("expected a clean 3-preset session, got %+v", info)
	}
}

func TestCreateSessionBadRequest(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{"not-json", `{"name":""}`, `{"name":"   "}`} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestCreateSessionConflict(t *testing.T) {
	srv := newTestServer(t)

	resp1 := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", `{"name":"dupe"}`)
	resp1.Body.Close()
	if resp1.StatusCode != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", resp1.StatusCode)
	}

	resp2 := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", `{"name":"dupe"}`)
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusConflict {
		t.Fatalf("second create: expected 409, got %d", resp2.StatusCode)
	}
}

func TestGetSessionState(t *testing.T) {
	env := newTestEnv(t)
	s, err := env.mgr.Create("state")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp := doJSON(t, http.MethodGet, env.srv.URL+"/api/sessions/"+s.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	st := decode[session.State](t, resp)
	if st.Count != 3 || len(st.Presets) != 3 || !st.CanInsert {
		t.Fatalf("unexpected state count=%d presets=%d canInsert=%v", st.Count, len(st.Presets), st.CanInsert)
	}
	if st.Presets[2].Name != "Scene 3" {
		t.Fatalf("unexpected default name %q", st.Presets[2].Name)
	}

	missing := doJSON(t, http.MethodGet, env.srv.URL+"/api/sessions/nope", "")
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.StatusCode)
	}
}

func TestRemoveSession(t *testing.T) {
	env := newTestEnv(t)
	s, _ := env.mgr.Create("to-remove")

	resp := doJSON(t, http.MethodDelete, env.srv.URL+"/api/sessions/"+s.ID, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if _, ok := env.mgr.Get(s.ID); ok {
		t.Fatal("session still registered")
	}

	again := doJSON(t, http.MethodDelete, env.srv.URL+"/api/sessions/"+s.ID, "")
	again.Body.Close()
	if again.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", again.StatusCode)
	}
}

func TestListSessionsAfterCreate(t *testing.T) {
	srv := newTestServer(t)

	for _, name := range []string{"s1", "s2"} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", `{"name":"`+name+`"}`)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions: %v", err)
	}
	sessions := decode[[]session.Info](t, resp)
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestStaticPages(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/config", "/preset/4"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || string(body) != "<html>editor</html>" {
			t.Fatalf("%s: got %d %q", path, resp.StatusCode, body)
		}
	}

	resp, err := http.Get(srv.URL + "/assets/app.js")
	if err != nil {
		t.Fatalf("GET asset: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected asset 200, got %d", resp.StatusCode)
	}
}
