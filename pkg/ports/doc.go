/*
Package ports defines the interfaces that decouple the keyframe runtime from its collaborators.

# Key Interfaces

  - TimeState / TimeTransition: the contracts the state machine drives. Alternate
    state implementations (pooled, engine-backed) plug in without touching the machine.
  - ParameterProvider: read-only access to animator parameters, held by states as a
    non-owning back-reference.
  - DefinitionLoader: retrieves authored animator definitions (files, Loam, Redis, memory).
  - DefinitionStore: a DefinitionLoader that can also persist definitions (Redis, files).
  - Watchable: optional change notification for loaders that support hot reload.
*/
package ports
