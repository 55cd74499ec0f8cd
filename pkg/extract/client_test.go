package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/model"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL + "/api/generate")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestClientExtract(t *testing.T) {
	var gotText, gotType string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Text string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotText, gotType = req.Text, r.Header.Get("Content-Type")
		_ = json.NewEncoder(w).Encode(Response{
			Success:    true,
			Classes:    []string{"Car", "Engine"},
			Attributes: map[string][]string{"Car": {"color"}},
			Relationships: []model.Relationship{
				{Source: "Car", Target: "Engine", Kind: "composition"},
			},
		})
	})

	d, err := c.Extract(context.Background(), "Car consists of Engine.")
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if gotText != "Car consists of Engine." || gotType != "application/json" {
		t.Errorf("request text=%q content-type=%q", gotText, gotType)
	}
	if len(d.Classes) != 2 || d.Attributes["Car"][0] != "color" {
		t.Errorf("diagram = %+v", d)
	}
	if r := d.Relationships[0]; r.Color != "#F44336" || r.Label != "consists of" {
		t.Errorf("relationship defaults not applied: %+v", r)
	}
}

func TestClientExtractionFailure(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(Response{Error: "No text provided"})
	})

	_, err := c.Extract(context.Background(), "x")
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Fatalf("err = %v, want EXTRACTION_FAILED", err)
	}
	if got := errors.UserMessage(err); got != "No text provided" {
		t.Errorf("message = %q, want verbatim service message", got)
	}
}

func TestClientTransportFailures(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, _ := NewClient(url)
		_, err := c.Extract(context.Background(), "Student has name.")
		if !errors.Is(err, errors.ErrCodeTransport) {
			t.Errorf("err = %v, want TRANSPORT", err)
		}
	})

	t.Run("not json", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})
		_, err := c.Extract(context.Background(), "Student has name.")
		if !errors.Is(err, errors.ErrCodeTransport) {
			t.Errorf("err = %v, want TRANSPORT", err)
		}
	})

	t.Run("empty error body", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{}`))
		})
		_, err := c.Extract(context.Background(), "Student has name.")
		if !errors.Is(err, errors.ErrCodeTransport) {
			t.Errorf("err = %v, want TRANSPORT", err)
		}
	})
}

func TestClientNoRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, _ = c.Extract(context.Background(), "Student has name.")
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, _ := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := c.Extract(context.Background(), "Student has name.")
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("err = %v, want TRANSPORT", err)
	}
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("")
	if err != nil || c.URL() != DefaultURL {
		t.Errorf("NewClient(\"\") = %v, %v", c, err)
	}
	if _, err := NewClient("ftp://example.com"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ftp URL accepted: %v", err)
	}
	if NameOf(c) != "http" || NameOf(Heuristic{}) != "heuristic" {
		t.Error("unexpected extractor names")
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse(nil, errors.New(errors.ErrCodeExtraction, "%s", MsgTooShort))
	if resp.Success || resp.Error != MsgTooShort {
		t.Errorf("NewResponse(err) = %+v", resp)
	}
	resp = NewResponse(&model.Diagram{Classes: []string{"A"}}, nil)
	if !resp.Success || resp.Attributes == nil {
		t.Errorf("NewResponse(diagram) = %+v", resp)
	}
}
