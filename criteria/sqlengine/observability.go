package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
)

const (
	logMsgResolveFailed      = "failed to resolve captured criteria"
	logMsgBuildQueryFailed   = "failed to build query"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgDecodeEntityFailed = "failed to decode entity from record"
	logMsgQueryCompleted     = "query completed"
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "criteria operation: "
	logAttrError             = "error"
	logAttrQuery             = "query"
	logAttrQueryID           = "query_id"
	logAttrEntity            = "entity"
	logAttrRowCount          = "row_count"
	logAttrFetchPasses       = "fetch_passes"
	logAttrFetchPath         = "fetch_path"
	logAttrDurationMS        = "duration_ms"
	logActionPrimary         = "primary"
	logActionFetch           = "fetch "
)

const (
	metricQueryDuration = "criteria_query_duration_seconds"
	metricQueryRows     = "criteria_query_rows"
	metricQueryErrors   = "criteria_query_errors_total"
	spanNameList        = "criteria.list"
	spanNameGet         = "criteria.get"
	spanNameFetch       = "criteria.fetch"
	spanAttrOperation   = "operation"
	spanAttrEntity      = "entity"
	spanAttrQueryID     = "query_id"
	spanAttrRowCount    = "row_count"
	spanAttrFetchPath   = "fetch_path"
	spanAttrErrorType   = "error_type"
	spanAttrDurationMS  = "duration_ms"
	labelStatus         = "status"
	operationList       = "list"
	operationGet        = "get"
	operationFetch      = "fetch"
	statusSuccess       = "success"
	statusError         = "error"
)

const (
	errorTypeInvalidParams   = "invalid_params"
	errorTypeMissingCriteria = "missing_criteria"
	errorTypeBuildQuery      = "build_query"
	errorTypeQuery           = "query"
	errorTypeScan            = "scan"
	errorTypeDecode          = "decode"
)

// errorTypeOf classifies a failure for metrics labels and span attributes.
func errorTypeOf(err error) string {
	switch {
	case errors.Is(err, criteria.ErrMissingCriteria):
		return errorTypeMissingCriteria
	case errors.Is(err, criteria.ErrUnsupportedOperation), errors.Is(err, criteria.ErrInvalidCriteriaValue):
		return errorTypeInvalidParams
	case errors.Is(err, ErrScanningDBRowFailed):
		return errorTypeScan
	case errors.Is(err, ErrQueryingFailed):
		return errorTypeQuery
	case errors.Is(err, ErrDecodingEntityFailed):
		return errorTypeDecode
	default:
		return errorTypeBuildQuery
	}
}

/***** Logging *****/

// logQueryWithDuration logs SQL queries with execution time at debug level.
func (e Engine) logQueryWithDuration(ctx context.Context, sqlQuery, action, queryID string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery, logAttrQueryID, queryID}

	if e.logger != nil {
		e.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (e Engine) logOperation(ctx context.Context, action string, args ...any) {
	if e.logger != nil {
		e.logger.Info(logMsgOperation+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues.
func (e Engine) logWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if e.logger != nil {
		e.logger.Warn(message, allArgs...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.WarnContext(ctx, message, allArgs...)
	}
}

// logError logs failures at the error level.
func (e Engine) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if e.logger != nil {
		e.logger.Error(message, allArgs...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

/***** Metrics *****/

// queryMetricsObserver encapsulates the metrics collection for one List or Get.
type queryMetricsObserver struct {
	e      Engine
	ctx    context.Context
	labels map[string]string
}

func (e Engine) startQueryMetrics(ctx context.Context, operation string, entity *Entity) *queryMetricsObserver {
	return &queryMetricsObserver{
		e:   e,
		ctx: ctx,
		labels: map[string]string{
			spanAttrOperation: operation,
			spanAttrEntity:    entity.name,
		},
	}
}

func (qmo *queryMetricsObserver) withStatus(status string) map[string]string {
	labels := make(map[string]string, len(qmo.labels)+2)
	for key, value := range qmo.labels {
		labels[key] = value
	}

	labels[labelStatus] = status

	return labels
}

// recordSuccess records duration and row count of a successful query.
func (qmo *queryMetricsObserver) recordSuccess(rowCount int, duration time.Duration) {
	collector := qmo.e.metricsCollector
	if collector == nil {
		return
	}

	labels := qmo.withStatus(statusSuccess)

	if contextual, ok := collector.(criteria.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(qmo.ctx, metricQueryDuration, duration, labels)
		contextual.RecordValueContext(qmo.ctx, metricQueryRows, float64(rowCount), labels)
		return
	}

	collector.RecordDuration(metricQueryDuration, duration, labels)
	collector.RecordValue(metricQueryRows, float64(rowCount), labels)
}

// recordError records duration and the error counter of a failed query.
func (qmo *queryMetricsObserver) recordError(errorType string, duration time.Duration) {
	collector := qmo.e.metricsCollector
	if collector == nil {
		return
	}

	labels := qmo.withStatus(statusError)
	errorLabels := qmo.withStatus(statusError)
	errorLabels[spanAttrErrorType] = errorType

	if contextual, ok := collector.(criteria.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(qmo.ctx, metricQueryDuration, duration, labels)
		contextual.IncrementCounterContext(qmo.ctx, metricQueryErrors, errorLabels)
		return
	}

	collector.RecordDuration(metricQueryDuration, duration, labels)
	collector.IncrementCounter(metricQueryErrors, errorLabels)
}

/***** Tracing *****/

// tracingObserver encapsulates the lifecycle of one span.
type tracingObserver struct {
	e    Engine
	span criteria.SpanContext
}

// startTracing starts a span if the tracing collector is configured.
func (e Engine) startTracing(ctx context.Context, name string, attrs map[string]string) (*tracingObserver, context.Context) {
	if e.tracingCollector == nil {
		return &tracingObserver{e: e}, ctx
	}

	newCtx, span := e.tracingCollector.StartSpan(ctx, name, attrs)

	return &tracingObserver{e: e, span: span}, newCtx
}

func (e Engine) startQueryTracing(
	ctx context.Context,
	operation string,
	entity *Entity,
	queryID string,
) (*tracingObserver, context.Context) {

	spanName := spanNameList
	if operation == operationGet {
		spanName = spanNameGet
	}

	return e.startTracing(ctx, spanName, map[string]string{
		spanAttrOperation: operation,
		spanAttrEntity:    entity.name,
		spanAttrQueryID:   queryID,
	})
}

func (e Engine) startFetchTracing(ctx context.Context, path, queryID string) (*tracingObserver, context.Context) {
	return e.startTracing(ctx, spanNameFetch, map[string]string{
		spanAttrOperation: operationFetch,
		spanAttrFetchPath: path,
		spanAttrQueryID:   queryID,
	})
}

func (to *tracingObserver) finishSuccess(rowCount int, duration time.Duration) {
	if to.span == nil {
		return
	}

	to.span.SetStatus(statusSuccess)
	to.span.AddAttribute(spanAttrRowCount, fmt.Sprintf("%d", rowCount))
	to.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))

	to.e.tracingCollector.FinishSpan(to.span, statusSuccess, map[string]string{
		spanAttrRowCount: fmt.Sprintf("%d", rowCount),
	})
}

func (to *tracingObserver) finishError(errorType string, duration time.Duration) {
	if to.span == nil {
		return
	}

	to.span.SetStatus(statusError)
	to.span.AddAttribute(spanAttrErrorType, errorType)

	if duration > 0 {
		to.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
	}

	to.e.tracingCollector.FinishSpan(to.span, statusError, map[string]string{spanAttrErrorType: errorType})
}
