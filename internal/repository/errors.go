package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicate is returned when an insert trips a unique constraint.
// Callers on the find-or-create path treat it as "someone else won the
// race" and re-fetch instead of surfacing a conflict.
var ErrDuplicate = errors.New("duplicate row")

const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}
