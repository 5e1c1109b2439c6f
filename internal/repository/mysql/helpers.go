package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	mysqldrv "github.com/go-sql-driver/mysql"
)

// MySQL server error numbers this backend cares about.
const (
	errDupEntry      = 1062 // ER_DUP_ENTRY
	errTriggerExists = 1359 // ER_TRG_ALREADY_EXISTS
)

// isUniqueViolation reports whether err is a duplicate-key error from
// the server.
func isUniqueViolation(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}

// isTriggerExists reports whether err says the orphan-cleanup trigger is
// already in place, which the bootstrap treats as success.
func isTriggerExists(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errTriggerExists
}

// queryNames runs a query whose result is a single text column and
// collects it into a slice.
func queryNames(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}

	return names, nil
}
