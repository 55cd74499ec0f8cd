package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/extract"
	"github.com/matzehuels/textuml/pkg/model"
	"github.com/matzehuels/textuml/pkg/pipeline"
)

const school = `Student has name, age and rollNumber.
Teacher has name, subject and experience.
Person has address and phoneNumber.
Student inherits from Person.
Teacher inherits from Person.`

func newTestServer(t *testing.T, ex extract.Extractor) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, ex, logger), logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestHomeAndHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body := decode[map[string]string](t, resp.Body)
	if body["status"] != "healthy" {
		t.Errorf("health status = %q", body["status"])
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	resp, err = http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	home := decode[map[string]any](t, resp.Body)
	if home["status"] != "running" {
		t.Errorf("home = %v", home)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, nil)
	const id = "6f1c1b3e-8d1f-4c47-9a57-3f2b1e0c9d11"

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/health", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}

func TestGenerate(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv.URL+"/api/generate", `{"text":`+jsonString(school)+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decode[extract.Response](t, resp.Body)
	if !got.Success || len(got.Classes) != 3 || len(got.Relationships) != 2 {
		t.Errorf("response = %+v", got)
	}
}

func TestGenerateAlwaysSendsCollections(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv.URL+"/api/generate", `{"text":"Library and Museum are places."}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]json.RawMessage](t, resp.Body)
	for key, want := range map[string]string{
		"success":       "true",
		"relationships": "[]",
		"classes":       `["Library","Museum"]`,
	} {
		if got := string(body[key]); got != want {
			t.Errorf("%s = %s, want %s", key, got, want)
		}
	}
	if _, ok := body["attributes"]; !ok {
		t.Error("attributes key missing")
	}
	if _, ok := body["error"]; ok {
		t.Error("successful response carries an error key")
	}

	resp = post(t, srv.URL+"/api/generate", `{"text":"nothing capitalised in here"}`)
	failed := decode[map[string]json.RawMessage](t, resp.Body)
	if len(failed) != 2 || string(failed["success"]) != "false" {
		t.Errorf("failure body = %v, want only success and error", failed)
	}
}

func TestGenerateBadRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name, body string
		status     int
		msg        string
	}{
		{"no body", "", http.StatusBadRequest, "No data provided"},
		{"no text", `{"text":""}`, http.StatusBadRequest, "No text provided"},
		{"blank text", `{"text":"   \n\t "}`, http.StatusOK, extract.MsgTooShort},
		{"bad json", `{"text":`, http.StatusBadRequest, "Invalid JSON"},
		{"no classes", `{"text":"there is nothing capitalised here"}`, http.StatusOK, extract.MsgNoClasses},
		{"too short", `{"text":"short"}`, http.StatusOK, extract.MsgTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/api/generate", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[errorBody](t, resp.Body)
			if body.Success || !strings.Contains(body.Error, tt.msg) {
				t.Errorf("body = %+v, want error containing %q", body, tt.msg)
			}
		})
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	failing := extract.Func(func(context.Context, string) (*model.Diagram, error) {
		return nil, errors.New(errors.ErrCodeTransport, "cannot connect to http://upstream")
	})
	srv := newTestServer(t, failing)

	resp := post(t, srv.URL+"/api/generate", `{"text":`+jsonString(school)+`}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestGeneratePanicRecovered(t *testing.T) {
	panicking := extract.Func(func(context.Context, string) (*model.Diagram, error) {
		panic("boom")
	})
	srv := newTestServer(t, panicking)

	resp := post(t, srv.URL+"/api/generate", `{"text":`+jsonString(school)+`}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	body := decode[errorBody](t, resp.Body)
	if !strings.HasPrefix(body.Error, "Server error: boom") {
		t.Errorf("error = %q", body.Error)
	}
}

func TestGenerateSharesInflight(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	slow := extract.Func(func(ctx context.Context, text string) (*model.Diagram, error) {
		calls.Add(1)
		<-release
		return extract.Heuristic{}.Extract(ctx, text)
	})
	srv := newTestServer(t, slow)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(srv.URL+"/api/generate", "application/json", strings.NewReader(`{"text":`+jsonString(school)+`}`))
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	time.Sleep(200 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("extractor called %d times, want 1", n)
	}
}

func TestGenerateFollowerSurvivesCancelledLeader(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	slow := extract.Func(func(ctx context.Context, text string) (*model.Diagram, error) {
		calls.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return extract.Heuristic{}.Extract(ctx, text)
	})
	srv := newTestServer(t, slow)
	body := `{"text":` + jsonString(school) + `}`

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	defer cancelLeader()
	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		req, _ := http.NewRequestWithContext(leaderCtx, http.MethodPost, srv.URL+"/api/generate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if resp, err := http.DefaultClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}()
	for deadline := time.Now().Add(2 * time.Second); calls.Load() == 0; {
		if time.Now().After(deadline) {
			t.Fatal("leader never reached the extractor")
		}
		time.Sleep(5 * time.Millisecond)
	}

	type result struct {
		status int
		body   extract.Response
	}
	follower := make(chan result, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/api/generate", "application/json", strings.NewReader(body))
		if err != nil {
			follower <- result{}
			return
		}
		defer resp.Body.Close()
		var r extract.Response
		_ = json.NewDecoder(resp.Body).Decode(&r)
		follower <- result{resp.StatusCode, r}
	}()
	time.Sleep(100 * time.Millisecond)

	cancelLeader()
	<-leaderDone
	time.Sleep(50 * time.Millisecond)
	close(release)

	got := <-follower
	if got.status != http.StatusOK || !got.body.Success || len(got.body.Classes) != 3 {
		t.Errorf("follower got status %d, body %+v", got.status, got.body)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("extractor called %d times, want 1", n)
	}
}

func TestRenderFormats(t *testing.T) {
	srv := newTestServer(t, nil)
	body := `{"text":` + jsonString(school) + `}`

	resp := post(t, srv.URL+"/api/render", body)
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("svg content type = %q", ct)
	}
	svg, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(svg), "<svg") {
		t.Error("svg body missing <svg")
	}

	resp = post(t, srv.URL+"/api/render?format=png", body)
	png, _ := io.ReadAll(resp.Body)
	if resp.Header.Get("Content-Type") != "image/png" || !strings.HasPrefix(string(png), "\x89PNG") {
		t.Error("png response malformed")
	}

	resp = post(t, srv.URL+"/api/render?format=json", body)
	out := decode[renderJSON](t, resp.Body)
	if !out.Success || out.Summary.EntityCount != 3 || out.Summary.TotalAttributeCount != 8 {
		t.Errorf("json summary = %+v", out.Summary)
	}
	if !strings.Contains(out.SVG, "<svg") || len(out.Scene) == 0 {
		t.Error("json response missing scene or svg")
	}
}

func TestRenderDiagram(t *testing.T) {
	srv := newTestServer(t, nil)
	body := `{"diagram":{"classes":["A","B"],"relationships":[{"source":"A","target":"C","type":"usage"}]}}`

	resp := post(t, srv.URL+"/api/render?format=json", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	out := decode[renderJSON](t, resp.Body)
	if out.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", out.Dropped)
	}
}

func TestRenderErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv.URL+"/api/render?format=pdf", `{"text":"x"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad format status = %d", resp.StatusCode)
	}
	resp = post(t, srv.URL+"/api/render", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty body status = %d", resp.StatusCode)
	}
	resp = post(t, srv.URL+"/api/render", `{"diagram":{"classes":["A","A"]}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate classes status = %d", resp.StatusCode)
	}
	resp = post(t, srv.URL+"/api/render", `{"text":"nothing capitalised at all"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("extraction failure status = %d", resp.StatusCode)
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil, log.New(io.Discard)), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
