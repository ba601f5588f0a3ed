package domain

// LayerSnapshot is a read-only view of one layer at a point in time.
type LayerSnapshot struct {
	Layer             int     `json:"layer"`
	Name              string  `json:"name,omitempty"`
	Current           string  `json:"current"`
	Next              string  `json:"next,omitempty"`
	InTransition      bool    `json:"in_transition"`
	Elapsed           float64 `json:"elapsed"`
	NormalizedTime    float64 `json:"normalized_time"`
	TransitionElapsed float64 `json:"transition_elapsed,omitempty"`
}
