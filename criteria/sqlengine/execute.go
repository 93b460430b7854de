package sqlengine

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine/internal/adapters"
)

// execute runs a statement and hands every scanned row to each, in result order.
func (e Engine) execute(
	ctx context.Context,
	stmt statement,
	action string,
	queryID string,
	each func(values []any) error,
) error {

	start := time.Now()
	rows, queryErr := e.db.Query(ctx, stmt.sql, stmt.args...)
	e.logQueryWithDuration(ctx, stmt.sql, action, queryID, time.Since(start))

	if queryErr != nil {
		e.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, stmt.sql, logAttrQueryID, queryID)
		return errors.Join(ErrQueryingFailed, queryErr)
	}
	defer e.closeRows(ctx, rows)

	for rows.Next() {
		values := make([]any, stmt.columns)
		dest := make([]any, stmt.columns)

		for i := range values {
			dest[i] = &values[i]
		}

		if scanErr := rows.Scan(dest...); scanErr != nil {
			e.logError(ctx, logMsgScanRowFailed, scanErr, logAttrQueryID, queryID)
			return errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		if err := each(values); err != nil {
			return err
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		e.logError(ctx, logMsgDBQueryFailed, rowsErr, logAttrQuery, stmt.sql, logAttrQueryID, queryID)
		return errors.Join(ErrQueryingFailed, rowsErr)
	}

	return nil
}

// closeRows closes database rows and logs any errors.
func (e Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// fetch runs the warming pass for one relationship path and attaches what it loads to the records
// of the session. Every primary record ends up with the first relation of the path marked as loaded,
// also when nothing was found for it.
func (e Engine) fetch(
	ctx context.Context,
	root *Entity,
	filters []criteria.ResolvedFilter,
	path string,
	keys []any,
	primary []*Record,
	sess *session,
	queryID string,
) error {

	start := time.Now()
	tracer, ctx := e.startFetchTracing(ctx, path, queryID)

	relations, err := root.walk(path)
	if err != nil {
		tracer.finishError(errorTypeBuildQuery, 0)
		return err
	}

	stmt, segments, err := compileFetch(e, root, filters, path, keys)
	if err != nil {
		e.logError(ctx, logMsgBuildQueryFailed, err, logAttrFetchPath, path, logAttrQueryID, queryID)
		tracer.finishError(errorTypeBuildQuery, 0)

		return err
	}

	rowCount := 0

	err = e.execute(ctx, stmt, logActionFetch+path, queryID, func(values []any) error {
		rowCount++

		parent, ok := sess.lookup(root, normalize(values[0]))
		if !ok {
			return nil
		}

		offset := 1
		for i, segment := range segments {
			width := len(segment.entity.Fields())
			child, present, _ := sess.load(segment.entity, values[offset:offset+width])
			offset += width

			if !present {
				return nil
			}

			parent.attach(relations[i], child)
			parent = child
		}

		return nil
	})
	if err != nil {
		tracer.finishError(errorTypeOf(err), time.Since(start))
		return err
	}

	for _, record := range primary {
		record.markLoaded(relations[0])
	}

	tracer.finishSuccess(rowCount, time.Since(start))

	return nil
}
