// Package helper provides test doubles for the observability interfaces of package criteria:
// a capturing slog handler, a metrics collector spy and a tracing collector spy.
package helper
