/*
Package observability turns animator lifecycle hooks into metrics and logs.

Metrics records Prometheus counters; LogHooks writes structured slog records.
Chain combines several hook sets so both can be attached to one animator.
*/
package observability
