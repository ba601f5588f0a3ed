package keyframe

import "github.com/aretw0/keyframe/pkg/domain"

// Group drives several animators as one: writes, Play and Update fan out
// to every member in insertion order.
type Group struct {
	members []*Animator
}

// NewGroup creates a group holding animators.
func NewGroup(animators ...*Animator) *Group {
	g := &Group{}
	for _, a := range animators {
		g.Add(a)
	}
	return g
}

// Add appends a; adding the same animator twice is a no-op.
func (g *Group) Add(a *Animator) {
	if a == nil || g.index(a) >= 0 {
		return
	}
	g.members = append(g.members, a)
}

// Remove drops a from the group and reports whether it was a member.
func (g *Group) Remove(a *Animator) bool {
	i := g.index(a)
	if i < 0 {
		return false
	}
	g.members = append(g.members[:i], g.members[i+1:]...)
	return true
}

func (g *Group) index(a *Animator) int {
	for i, m := range g.members {
		if m == a {
			return i
		}
	}
	return -1
}

func (g *Group) Len() int { return len(g.members) }

// Animators returns the members in insertion order.
func (g *Group) Animators() []*Animator {
	return append([]*Animator(nil), g.members...)
}

func (g *Group) each(fn func(*Animator)) {
	for _, m := range g.members {
		fn(m)
	}
}

func (g *Group) Update(dt float64) { g.each(func(a *Animator) { a.Update(dt) }) }
func (g *Group) Play(name string)  { g.each(func(a *Animator) { a.Play(name) }) }

func (g *Group) SetInteger(name string, v int) {
	g.each(func(a *Animator) { a.SetInteger(name, v) })
}

func (g *Group) SetFloat(name string, v float64) {
	g.each(func(a *Animator) { a.SetFloat(name, v) })
}

func (g *Group) SetBool(name string, v bool) {
	g.each(func(a *Animator) { a.SetBool(name, v) })
}

func (g *Group) SetTrigger(name string) {
	g.each(func(a *Animator) { a.SetTrigger(name) })
}

func (g *Group) ResetTrigger(name string) {
	g.each(func(a *Animator) { a.ResetTrigger(name) })
}

// IsName reports whether any member is playing the named state.
func (g *Group) IsName(name string) bool {
	for _, m := range g.members {
		if m.IsName(name) {
			return true
		}
	}
	return false
}

// OnEvent subscribes fn on every current member. Members added later are
// not subscribed.
func (g *Group) OnEvent(fn func(domain.AnimationEvent)) (remove func()) {
	return g.subscribe(func(a *Animator) func() { return a.OnEvent(fn) })
}

// OnVisualEvent is OnEvent for the visual channel.
func (g *Group) OnVisualEvent(fn func(domain.AnimationEvent)) (remove func()) {
	return g.subscribe(func(a *Animator) func() { return a.OnVisualEvent(fn) })
}

func (g *Group) subscribe(add func(*Animator) func()) func() {
	removers := make([]func(), 0, len(g.members))
	for _, m := range g.members {
		removers = append(removers, add(m))
	}
	return func() {
		for _, r := range removers {
			r()
		}
	}
}
