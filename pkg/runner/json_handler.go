package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
)

// JSONHandler writes a JSON-Lines trace: one "frame" object per update and a
// final "summary" object.
type JSONHandler struct {
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler writing to w (stdout when nil).
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{Encoder: json.NewEncoder(w)}
}

type jsonFrame struct {
	Type string `json:"type"`
	Frame
}

type jsonSummary struct {
	Type     string   `json:"type"`
	Animator string   `json:"animator"`
	Script   string   `json:"script,omitempty"`
	Frames   int      `json:"frames"`
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`
}

func (h *JSONHandler) Frame(ctx context.Context, f Frame) error {
	return h.Encoder.Encode(jsonFrame{Type: "frame", Frame: f})
}

func (h *JSONHandler) Finish(ctx context.Context, t *Trace) error {
	return h.Encoder.Encode(jsonSummary{
		Type:     "summary",
		Animator: t.Animator,
		Script:   t.Script,
		Frames:   len(t.Frames),
		Passed:   t.Passed(),
		Failures: t.Failures,
	})
}
