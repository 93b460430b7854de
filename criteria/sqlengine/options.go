package sqlengine

import (
	"fmt"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
)

// Option defines a functional option for configuring an Engine.
type Option func(*Engine) error

// WithDialect sets the goqu dialect the queries are generated for: postgres, sqlite3 or mysql.
func WithDialect(dialect string) Option {
	return func(e *Engine) error {
		if !isSupportedDialect(dialect) {
			return fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
		}

		e.dialect = dialect

		return nil
	}
}

// WithRootAlias sets the SQL alias of the queried entity, "this_" by default.
// Custom predicates reach it through criteria.QueryContext.Root().
func WithRootAlias(alias string) Option {
	return func(e *Engine) error {
		if alias == "" {
			return ErrEmptyRootAlias
		}

		e.rootAlias = alias

		return nil
	}
}

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: row counts, fetch passes, durations (production-safe)
// Warn level: non-critical issues like failing to close rows
// Error level: failures that make a query fail.
func WithLogger(logger criteria.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine.
// It receives the same messages as the Logger, with the query context for trace correlation.
func WithContextualLogger(logger criteria.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
// It receives query durations, row counts and error counters.
func WithMetrics(collector criteria.MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
// Every List and Get gets a span, and every fetch pass a child span.
func WithTracing(collector criteria.TracingCollector) Option {
	return func(e *Engine) error {
		e.tracingCollector = collector
		return nil
	}
}
