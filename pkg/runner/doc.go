/*
Package runner drives an Animator through a deterministic script and records
what happened.

A Script is a list of steps; each step writes parameters, optionally plays a
state, then advances time one or more times. Every Update produces a Frame
(layer snapshots, the layers that changed, the events that fired) which is
handed to a TraceHandler as it is produced and collected into a Trace.

# Key Components

  - Runner: applies a Script to an Animator.
  - TraceHandler: decouples how frames are reported (text, JSON lines).
  - TextHandler: human-readable trace with termenv colours.
  - JSONHandler: one JSON object per frame.

# Usage

	script, err := runner.LoadScript("walk.yaml")
	if err != nil {
		log.Fatal(err)
	}

	r := runner.NewRunner(runner.WithHandler(runner.NewTextHandler(os.Stdout)))
	trace, err := r.Run(ctx, animator, script)
*/
package runner
