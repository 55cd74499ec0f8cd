package extract

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/model"
)

// Extractor derives a diagram from free text.
type Extractor interface {
	Extract(ctx context.Context, text string) (*model.Diagram, error)
}

// Named is implemented by extractors that report a short name for logs and
// metrics.
type Named interface {
	Name() string
}

// NameOf returns e's name, or "custom".
func NameOf(e Extractor) string {
	if n, ok := e.(Named); ok {
		return n.Name()
	}
	return "custom"
}

// Func adapts a function to [Extractor].
type Func func(ctx context.Context, text string) (*model.Diagram, error)

// Extract calls f.
func (f Func) Extract(ctx context.Context, text string) (*model.Diagram, error) { return f(ctx, text) }

// Response is the wire format of an extraction result.
type Response struct {
	Success       bool                 `json:"success"`
	Classes       []string             `json:"classes"`
	Attributes    map[string][]string  `json:"attributes"`
	Relationships []model.Relationship `json:"relationships"`
	Error         string               `json:"error,omitempty"`
}

// MarshalJSON encodes a failure as {"success":false,"error":...} and a
// success with all three collections present, empty ones as [] or {}.
func (r Response) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Error: r.Error})
	}
	type wire Response
	w := wire(r)
	w.Error = ""
	if w.Classes == nil {
		w.Classes = []string{}
	}
	if w.Attributes == nil {
		w.Attributes = map[string][]string{}
	}
	if w.Relationships == nil {
		w.Relationships = []model.Relationship{}
	}
	return json.Marshal(w)
}

// Diagram converts a successful response to a normalised diagram. A failed
// response yields an EXTRACTION_FAILED error carrying the message verbatim.
func (r *Response) Diagram() (*model.Diagram, error) {
	if !r.Success {
		msg := r.Error
		if msg == "" {
			msg = "extraction failed"
		}
		return nil, errors.New(errors.ErrCodeExtraction, "%s", msg)
	}
	d := &model.Diagram{
		Classes:       r.Classes,
		Attributes:    r.Attributes,
		Relationships: r.Relationships,
	}
	if d.Classes == nil {
		d.Classes = []string{}
	}
	if d.Relationships == nil {
		d.Relationships = []model.Relationship{}
	}
	return d.Normalize(), nil
}

// NewResponse builds the wire response for a diagram or an error. Errors
// other than EXTRACTION_FAILED keep their user message.
func NewResponse(d *model.Diagram, err error) Response {
	if err != nil {
		return Response{Error: errors.UserMessage(err)}
	}
	if d == nil {
		return Response{Error: "extraction failed"}
	}
	attrs := d.Attributes
	if attrs == nil {
		attrs = map[string][]string{}
	}
	return Response{
		Success:       true,
		Classes:       d.Classes,
		Attributes:    attrs,
		Relationships: d.Relationships,
	}
}
