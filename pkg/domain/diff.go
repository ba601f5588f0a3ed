package domain

// LayerDiff describes what changed on one layer between two snapshots.
// Only changed fields are set. It is designed to be serialized to JSON for
// compact traces.
type LayerDiff struct {
	// Layer is always present to identify the target.
	Layer int `json:"layer"`

	Current *string `json:"current,omitempty"`

	// Next is set to an empty string when a transition ends.
	Next *string `json:"next,omitempty"`

	InTransition *bool `json:"in_transition,omitempty"`
}

// IsEmpty reports whether the diff carries any change.
func (d LayerDiff) IsEmpty() bool {
	return d.Current == nil && d.Next == nil && d.InTransition == nil
}

// DiffLayers compares two snapshot sets layer by layer.
// If old is nil, every layer of next is reported (initial frame).
// Timing fields are ignored; they change on every update.
func DiffLayers(old, next []LayerSnapshot) []LayerDiff {
	var out []LayerDiff
	for i := range next {
		n := next[i]
		d := LayerDiff{Layer: n.Layer}

		if i >= len(old) {
			d.Current = &n.Current
			if n.Next != "" {
				d.Next = &n.Next
			}
			d.InTransition = &n.InTransition
			out = append(out, d)
			continue
		}

		o := old[i]
		if o.Current != n.Current {
			d.Current = &n.Current
		}
		if o.Next != n.Next {
			d.Next = &n.Next
		}
		if o.InTransition != n.InTransition {
			d.InTransition = &n.InTransition
		}
		if !d.IsEmpty() {
			out = append(out, d)
		}
	}
	return out
}
