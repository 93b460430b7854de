// Package oteladapters provides OpenTelemetry adapters for the criteria observability interfaces.
//
// They plug into sqlengine with WithMetrics, WithTracing and WithContextualLogger:
//
//	meter := otel.Meter("query-criteria")
//	tracer := otel.Tracer("query-criteria")
//
//	engine, err := sqlengine.NewEngineFromPGXPool(pool,
//		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		sqlengine.WithTracing(oteladapters.NewTracingCollector(tracer)),
//		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("query-criteria")),
//	)
package oteladapters
