package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/aretw0/keyframe"
	"github.com/aretw0/keyframe/internal/logging"
	"github.com/aretw0/keyframe/pkg/domain"
)

var (
	// ErrExpectationFailed is returned by Run when a step's Expect did not hold.
	ErrExpectationFailed = errors.New("expectation failed")

	// ErrTooManyFrames is returned when a script would exceed MaxFrames.
	ErrTooManyFrames = errors.New("script exceeds frame limit")
)

// Runner applies scripts to animators. It holds no per-run state and can be
// reused.
type Runner struct {
	// Handler receives frames as they are produced. If nil, Discard is used.
	Handler TraceHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	MaxFrames int
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Handler:   Discard,
		Logger:    logging.NewNop(),
		MaxFrames: DefaultMaxFrames,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Frame records the outcome of one Update.
type Frame struct {
	Index int     `json:"index"`
	Step  int     `json:"step"`
	Dt    float64 `json:"dt"`
	Time  float64 `json:"time"`

	Layers  []domain.LayerSnapshot `json:"layers"`
	Changes []domain.LayerDiff     `json:"changes,omitempty"`
	Events  []RecordedEvent        `json:"events,omitempty"`
}

// RecordedEvent is an animation event captured during a frame.
type RecordedEvent struct {
	Channel string                    `json:"channel"`
	Event   domain.AnimationEventData `json:"event"`
}

// Trace is the full record of a run.
type Trace struct {
	Animator string   `json:"animator"`
	Script   string   `json:"script,omitempty"`
	Frames   []Frame  `json:"frames"`
	Failures []string `json:"failures,omitempty"`
}

// Passed reports whether every expectation held.
func (t *Trace) Passed() bool {
	return len(t.Failures) == 0
}

// Run applies script to anim. Context cancellation is checked between
// updates. The returned trace is never nil; it holds every frame produced
// before an error.
func (r *Runner) Run(ctx context.Context, anim *keyframe.Animator, script Script) (*Trace, error) {
	handler := r.Handler
	if handler == nil {
		handler = Discard
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With("animator", anim.Name(), "script", script.Name)

	trace := &Trace{Animator: anim.Name(), Script: script.Name}

	var pending []RecordedEvent
	record := func(channel string) func(domain.AnimationEvent) {
		return func(e domain.AnimationEvent) {
			pending = append(pending, RecordedEvent{Channel: channel, Event: eventData(e)})
		}
	}
	defer anim.OnEvent(record(domain.ChannelGeneric))()
	defer anim.OnVisualEvent(record(domain.ChannelVisual))()

	err := r.run(ctx, anim, script, trace, handler, &pending, logger)
	if finishErr := handler.Finish(ctx, trace); finishErr != nil && err == nil {
		err = fmt.Errorf("trace handler: %w", finishErr)
	}
	if err == nil && !trace.Passed() {
		err = fmt.Errorf("%w: %d failure(s)", ErrExpectationFailed, len(trace.Failures))
	}
	return trace, err
}

func (r *Runner) run(ctx context.Context, anim *keyframe.Animator, script Script, trace *Trace, handler TraceHandler, pending *[]RecordedEvent, logger *slog.Logger) error {
	if r.MaxFrames > 0 {
		// Compared against the remaining budget so huge repeats cannot wrap the sum.
		total := 0
		for i, step := range script.Steps {
			u := step.updates()
			if u > r.MaxFrames-total {
				return fmt.Errorf("%w: step %d needs %d update(s), %d left of %d", ErrTooManyFrames, i, u, r.MaxFrames-total, r.MaxFrames)
			}
			total += u
		}
	}

	var clock float64
	last := anim.Layers()
	for i, step := range script.Steps {
		apply(anim, step)

		for n := 0; n < step.updates(); n++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			anim.Update(step.Dt)
			clock += step.Dt

			layers := anim.Layers()
			frame := Frame{
				Index:   len(trace.Frames),
				Step:    i,
				Dt:      step.Dt,
				Time:    clock,
				Layers:  layers,
				Changes: domain.DiffLayers(last, layers),
				Events:  *pending,
			}
			*pending = nil
			last = layers

			trace.Frames = append(trace.Frames, frame)
			if err := handler.Frame(ctx, frame); err != nil {
				return fmt.Errorf("trace handler: %w", err)
			}
		}

		for _, failure := range check(step.Expect, last) {
			msg := fmt.Sprintf("step %d: %s", i, failure)
			logger.Debug("expectation failed", "step", i, "reason", failure)
			trace.Failures = append(trace.Failures, msg)
		}
	}
	return nil
}

func apply(anim *keyframe.Animator, step Step) {
	for _, name := range sortedKeys(step.Int) {
		anim.SetInteger(name, step.Int[name])
	}
	for _, name := range sortedKeys(step.Float) {
		anim.SetFloat(name, step.Float[name])
	}
	for _, name := range sortedKeys(step.Bool) {
		anim.SetBool(name, step.Bool[name])
	}
	for _, name := range step.Trigger {
		anim.SetTrigger(name)
	}
	for _, name := range step.ResetTrigger {
		anim.ResetTrigger(name)
	}
	if step.Play != "" {
		anim.Play(step.Play)
	}
}

// check compares expectations against the final layers of a step.
// Keys are layer names, falling back to the layer index.
func check(expect map[string]string, layers []domain.LayerSnapshot) []string {
	var failures []string
	for _, key := range sortedKeys(expect) {
		want := expect[key]
		snap, ok := findLayer(layers, key)
		if !ok {
			failures = append(failures, fmt.Sprintf("layer %q not found", key))
			continue
		}
		if snap.Current != want {
			failures = append(failures, fmt.Sprintf("layer %q: want state %q, got %q", key, want, snap.Current))
		}
	}
	return failures
}

func findLayer(layers []domain.LayerSnapshot, key string) (domain.LayerSnapshot, bool) {
	for _, l := range layers {
		if l.Name != "" && l.Name == key {
			return l, true
		}
	}
	if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(layers) {
		return layers[i], true
	}
	return domain.LayerSnapshot{}, false
}

func eventData(e domain.AnimationEvent) domain.AnimationEventData {
	if d, ok := e.(domain.AnimationEventData); ok {
		return d
	}
	return domain.AnimationEventData{
		Time:   e.EventTime(),
		Visual: e.IsVisual(),
		String: e.StringValue(),
		Int:    e.IntValue(),
		Float:  e.FloatValue(),
	}
}

// sortedKeys keeps parameter writes deterministic across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
