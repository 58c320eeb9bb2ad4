package storage

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/marcboeker/go-duckdb"
)

// insertRows writes rows into table in a single batch. Rows the database
// refuses are counted as rejected; only connection or commit failures are
// returned as errors. labels[i] identifies rows[i] in rejection messages.
func (s *Storage) insertRows(ctx context.Context, table string, columns []string, rows [][]any, labels []string) (*StoreResult, error) {
	if len(rows) == 0 {
		return &StoreResult{}, nil
	}
	if s.driver == DriverDuckDB {
		return s.appendRows(ctx, table, rows, labels)
	}
	return s.execRows(ctx, table, columns, rows, labels)
}

// execRows inserts through one prepared statement inside one transaction.
func (s *Storage) execRows(ctx context.Context, table string, columns []string, rows [][]any, labels []string) (*StoreResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewInfrastructureError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, NewInfrastructureError("failed to prepare insert into "+table, err)
	}
	defer stmt.Close()

	result := &StoreResult{}
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			result.AddError(fmt.Sprintf("%s %s: %v", table, labels[i], err))
			continue
		}
		result.Accepted++
	}

	if err := tx.Commit(); err != nil {
		return nil, NewInfrastructureError("failed to commit "+table, err)
	}
	return result, nil
}

// appendRows uses the DuckDB appender. Values are bound by position, so
// rows must follow the table's column order.
func (s *Storage) appendRows(ctx context.Context, table string, rows [][]any, labels []string) (*StoreResult, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, NewInfrastructureError("failed to get connection", err)
	}
	defer conn.Close()

	var appender *duckdb.Appender
	err = conn.Raw(func(driverConn any) error {
		duckConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("unexpected connection type: %T", driverConn)
		}
		var appErr error
		appender, appErr = duckdb.NewAppenderFromConn(duckConn, "", table)
		return appErr
	})
	if err != nil {
		return nil, NewInfrastructureError("failed to create appender", err)
	}
	defer appender.Close()

	result := &StoreResult{}
	values := make([]driver.Value, 0, len(rows[0]))
	for i, row := range rows {
		values = values[:0]
		for _, v := range row {
			values = append(values, v)
		}
		if err := appender.AppendRow(values...); err != nil {
			result.AddError(fmt.Sprintf("%s %s: %v", table, labels[i], err))
			continue
		}
		result.Accepted++
	}

	if err := appender.Flush(); err != nil {
		return nil, NewInfrastructureError("failed to flush "+table, err)
	}
	return result, nil
}
