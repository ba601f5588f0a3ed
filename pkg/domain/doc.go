/*
Package domain contains the authoring data and shared value types of the keyframe runtime.

The types in this package describe an animator as it was authored: its parameters,
its layers, the states inside each layer and the transitions between them. They are
consumed read-only by the runtime and carry json, yaml and mapstructure tags so most
loader adapters can decode them without an intermediate DTO.

# Key Entities

  - AnimatorData: the root record (parameters + layers).
  - LayerData: one independent state machine (default state, states, any-state transitions).
  - StateData: a named, time-advancing unit with timed events and outgoing transitions.
  - TransitionData: a guarded edge with exit time, duration and interruption policy.
  - LifecycleHooks: synchronous observability callbacks fired from inside Update.
*/
package domain
