package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/matzehuels/textuml/pkg/buildinfo"
	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/extract"
	"github.com/matzehuels/textuml/pkg/model"
	"github.com/matzehuels/textuml/pkg/pipeline"
	"github.com/matzehuels/textuml/pkg/summary"
)

type generateRequest struct {
	Text    string `json:"text"`
	Refresh bool   `json:"refresh,omitempty"`
}

type renderRequest struct {
	Text     string         `json:"text"`
	Diagram  *model.Diagram `json:"diagram,omitempty"`
	VizType  string         `json:"viz_type,omitempty"`
	Scale    float64        `json:"scale,omitempty"`
	MaxWidth int            `json:"max_width,omitempty"`
	Refresh  bool           `json:"refresh,omitempty"`
}

type renderJSON struct {
	Success bool            `json:"success"`
	Summary summary.Summary `json:"summary"`
	Scene   json.RawMessage `json:"scene"`
	SVG     string          `json:"svg,omitempty"`
	Dropped int             `json:"dropped"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Text to UML Diagram API",
		"status":  "running",
		"build":   buildinfo.Current(),
		"endpoints": map[string]string{
			"generate": "/api/generate (POST)",
			"render":   "/api/render (POST)",
			"health":   "/api/health (GET)",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Server is running",
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "No text provided")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusOK, extract.Response{Error: extract.MsgTooShort})
		return
	}

	// The flight outlives any single caller, so a disconnecting leader
	// must not cancel the extraction its followers are waiting on.
	ctx := context.WithoutCancel(r.Context())
	key := fmt.Sprintf("%t:%s", req.Refresh, req.Text)
	v, err, shared := s.flight.Do(key, func() (any, error) {
		return s.runner.Extract(ctx, req.Text, req.Refresh)
	})
	if shared {
		s.logger.Debug("shared extraction", "id", r.Header.Get(RequestIDHeader))
	}
	if err != nil {
		if errors.Is(err, errors.ErrCodeExtraction) || errors.Is(err, errors.ErrCodeEmptyInput) {
			writeJSON(w, http.StatusOK, extract.NewResponse(nil, err))
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, extract.NewResponse(v.(*model.Diagram), nil))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}

	var req renderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Diagram == nil && strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "No text or diagram provided")
		return
	}

	formats := []string{format}
	if format == pipeline.FormatJSON {
		formats = append(formats, pipeline.FormatSVG)
	}
	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Text:     req.Text,
		Diagram:  req.Diagram,
		Refresh:  req.Refresh,
		VizType:  req.VizType,
		Formats:  formats,
		Scale:    req.Scale,
		MaxWidth: req.MaxWidth,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Debug("rendered", "id", r.Header.Get(RequestIDHeader),
		"entities", res.Stats.Entities, "dropped", res.Stats.Dropped, "cached", res.CacheInfo.RenderHit)

	switch format {
	case pipeline.FormatJSON:
		writeJSON(w, http.StatusOK, renderJSON{
			Success: true,
			Summary: res.Summary,
			Scene:   res.Artifacts[pipeline.FormatJSON],
			SVG:     string(res.Artifacts[pipeline.FormatSVG]),
			Dropped: res.Stats.Dropped,
		})
	case pipeline.FormatPNG:
		writeBytes(w, "image/png", res.Artifacts[format])
	default:
		writeBytes(w, "image/svg+xml", res.Artifacts[format])
	}
}

// fail writes err with the status its code maps to. Uncoded errors are
// internal.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", r.Header.Get(RequestIDHeader), "path", r.URL.Path, "err", err)
		msg = "Server error: " + err.Error()
	}
	writeError(w, status, msg)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case stderrors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "No data provided")
		default:
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		}
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Success: false, Error: msg})
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
