package sqlengine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
)

// source is what a Query runs against; it is shared by every Query of one Repository.
type source[T any] struct {
	engine   Engine
	entity   *Entity
	registry criteria.Registry
	decode   Decoder[T]
}

// Query is a declared query, ready to run. It holds a snapshot of the captured criteria,
// so running it again yields the same SQL.
type Query[T any] struct {
	source *source[T]
	values criteria.CapturedValues
	err    error
	window window
}

// Page restricts List to limit rows starting at offset, in the order the captured sorts define.
// Fetch passes only load associations of the rows on the page.
func (q Query[T]) Page(limit, offset uint) Query[T] {
	q.window = window{limit: limit, offset: offset}
	return q
}

// Values returns the captured criteria the Query was declared with.
func (q Query[T]) Values() criteria.CapturedValues {
	return q.values
}

// SQL compiles the primary query without running it.
func (q Query[T]) SQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}

	filters, sorts, _, err := q.source.registry.Resolve(q.values)
	if err != nil {
		return "", nil, err
	}

	stmt, err := compilePrimary(q.source.engine, q.source.entity, filters, sorts, q.window)
	if err != nil {
		return "", nil, err
	}

	return stmt.sql, stmt.args, nil
}

// List runs the query and returns all matching entities, with the captured fetches loaded.
func (q Query[T]) List(ctx context.Context) ([]T, error) {
	return q.run(ctx, operationList, q.window)
}

// Get runs the query for at most one entity. The second return value is false when nothing matched.
func (q Query[T]) Get(ctx context.Context) (T, bool, error) {
	var empty T

	entities, err := q.run(ctx, operationGet, window{limit: 1, offset: q.window.offset})
	if err != nil || len(entities) == 0 {
		return empty, false, err
	}

	return entities[0], true, nil
}

func (q Query[T]) run(ctx context.Context, operation string, w window) ([]T, error) {
	e := q.source.engine
	queryID := uuid.NewString()
	start := time.Now()

	tracer, ctx := e.startQueryTracing(ctx, operation, q.source.entity, queryID)
	metrics := e.startQueryMetrics(ctx, operation, q.source.entity)

	entities, err := q.load(ctx, w, queryID)
	duration := time.Since(start)

	if err != nil {
		errorType := errorTypeOf(err)
		metrics.recordError(errorType, duration)
		tracer.finishError(errorType, duration)

		return nil, err
	}

	e.logOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrEntity, q.source.entity.name,
		logAttrRowCount, len(entities),
		logAttrFetchPasses, q.fetchCount(),
		logAttrDurationMS, toMilliseconds(duration),
		logAttrQueryID, queryID,
	)

	metrics.recordSuccess(len(entities), duration)
	tracer.finishSuccess(len(entities), duration)

	return entities, nil
}

func (q Query[T]) load(ctx context.Context, w window, queryID string) ([]T, error) {
	e := q.source.engine
	root := q.source.entity

	if q.err != nil {
		e.logError(ctx, logMsgResolveFailed, q.err, logAttrQueryID, queryID)
		return nil, q.err
	}

	filters, sorts, fetches, err := q.source.registry.Resolve(q.values)
	if err != nil {
		e.logError(ctx, logMsgResolveFailed, err, logAttrQueryID, queryID)
		return nil, err
	}

	stmt, err := compilePrimary(e, root, filters, sorts, w)
	if err != nil {
		e.logError(ctx, logMsgBuildQueryFailed, err, logAttrEntity, root.name, logAttrQueryID, queryID)
		return nil, err
	}

	sess := newSession()
	records := make([]*Record, 0)
	width := len(root.Fields())

	err = e.execute(ctx, stmt, logActionPrimary, queryID, func(values []any) error {
		record, present, created := sess.load(root, values[:width])
		if present && created {
			records = append(records, record)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var keys []any
	if w.limit > 0 {
		keys = keysOf(records)
	}

	for _, fetch := range fetches {
		if len(records) == 0 {
			break
		}

		if fetchErr := e.fetch(ctx, root, filters, fetch.Path(), keys, records, sess, queryID); fetchErr != nil {
			return nil, fetchErr
		}
	}

	return q.decodeAll(ctx, records, queryID)
}

func (q Query[T]) decodeAll(ctx context.Context, records []*Record, queryID string) ([]T, error) {
	entities := make([]T, 0, len(records))

	for _, record := range records {
		entity, err := q.source.decode(record)
		if err != nil {
			q.source.engine.logError(ctx, logMsgDecodeEntityFailed, err,
				logAttrEntity, q.source.entity.name, logAttrQueryID, queryID)

			return nil, err
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

func (q Query[T]) fetchCount() int {
	count := 0

	for _, name := range q.values.Names() {
		if q.source.registry.IsFetch(name) {
			count++
		}
	}

	return count
}

func keysOf(records []*Record) []any {
	keys := make([]any, 0, len(records))
	for _, record := range records {
		keys = append(keys, record.key)
	}

	return keys
}
