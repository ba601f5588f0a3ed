package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/muesli/termenv"
)

// TextHandler prints a human-readable trace.
type TextHandler struct {
	out     *termenv.Output
	changes bool
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*textConfig)

type textConfig struct {
	profile    *termenv.Profile
	onlyChange bool
}

// WithProfile forces a colour profile instead of detecting it from the writer.
// termenv.Ascii disables colour entirely.
func WithProfile(p termenv.Profile) TextHandlerOption {
	return func(c *textConfig) {
		c.profile = &p
	}
}

// WithChangesOnly skips frames in which no layer changed and no event fired.
func WithChangesOnly() TextHandlerOption {
	return func(c *textConfig) {
		c.onlyChange = true
	}
}

// NewTextHandler creates a handler writing to w (stdout when nil).
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	var cfg textConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var outOpts []termenv.OutputOption
	if cfg.profile != nil {
		outOpts = append(outOpts, termenv.WithProfile(*cfg.profile))
	}
	return &TextHandler{
		out:     termenv.NewOutput(w, outOpts...),
		changes: cfg.onlyChange,
	}
}

func (h *TextHandler) style(s, hex string) termenv.Style {
	return h.out.String(s).Foreground(h.out.Color(hex))
}

// Frame prints one line per frame followed by one line per fired event.
func (h *TextHandler) Frame(ctx context.Context, f Frame) error {
	if h.changes && len(f.Changes) == 0 && len(f.Events) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", h.style(fmt.Sprintf("[%4d]", f.Index), "#6b7280"), fmt.Sprintf("t=%.3f", f.Time))
	for _, l := range f.Layers {
		b.WriteString("  ")
		b.WriteString(h.layer(l, changed(f.Changes, l.Layer)))
	}
	b.WriteByte('\n')

	for _, ev := range f.Events {
		fmt.Fprintf(&b, "       %s %s @%.3f\n", h.style(ev.Channel, "#f59e0b"), eventLabel(ev.Event), ev.Event.Time)
	}

	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *TextHandler) layer(l domain.LayerSnapshot, changed bool) string {
	name := l.Name
	if name == "" {
		name = fmt.Sprintf("#%d", l.Layer)
	}

	state := l.Current
	if l.InTransition {
		state = fmt.Sprintf("%s -> %s", l.Current, l.Next)
	}
	label := fmt.Sprintf("%s: %s (%.2f)", name, state, l.NormalizedTime)
	if changed {
		return h.style(label, "#a78bfa").Bold().String()
	}
	return label
}

// Finish prints a PASS/FAIL summary.
func (h *TextHandler) Finish(ctx context.Context, t *Trace) error {
	status := h.style("PASS", "#22c55e")
	if !t.Passed() {
		status = h.style("FAIL", "#ef4444")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d frame(s)\n", status.Bold(), t.Animator, len(t.Frames))
	for _, failure := range t.Failures {
		fmt.Fprintf(&b, "  - %s\n", failure)
	}
	_, err := io.WriteString(h.out, b.String())
	return err
}

func changed(diffs []domain.LayerDiff, layer int) bool {
	for _, d := range diffs {
		if d.Layer == layer {
			return true
		}
	}
	return false
}

func eventLabel(e domain.AnimationEventData) string {
	switch {
	case e.String != "":
		return e.String
	case e.Int != 0:
		return fmt.Sprintf("int=%d", e.Int)
	case e.Float != 0:
		return fmt.Sprintf("float=%g", e.Float)
	}
	return "(event)"
}
