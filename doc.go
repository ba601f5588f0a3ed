/*
Package keyframe is a standalone animation state-machine runtime.

Named states advance over time, transition between each other under
parameter-driven conditions, can be interrupted mid-transition and emit timed
events. The runtime knows nothing about rendering: it tells the host which
state each layer is in, how far it has played and which events fired.

# Concept

An Animator is built from a domain.AnimatorData definition. It owns a set of
typed parameters (int, float, bool, trigger) and one state machine per layer.
The host writes parameters and calls Update with the frame delta; every layer
then resolves transitions, advances time and resolves again, so chains of
instantaneous transitions settle within a single call.

# Usage

	anim, err := keyframe.New(def, keyframe.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	anim.OnEvent(func(ev domain.AnimationEvent) {
		log.Println("event", ev.StringValue())
	})

	for frame := range ticks {
		anim.SetBool("run", input.Running())
		anim.Update(frame.Delta.Seconds())
		draw(anim.CurrentStateName(), anim.CurrentStateNormalizedTime())
	}

Definitions are usually loaded through one of the pkg/adapters loaders and
checked with pkg/schema. The pkg/runner package replays scripted parameter
writes deterministically, which is what the keyframe CLI uses for simulate.
*/
package keyframe
