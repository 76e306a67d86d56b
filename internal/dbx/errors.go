package dbx

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLite reports a rowid primary key collision as
// "UNIQUE constraint failed: <table>.id (1555)".
var (
	trailingCode = regexp.MustCompile(`\((\d+)\)\s*$`)
	idColumn     = regexp.MustCompile(`UNIQUE constraint failed: \w+\.id(\s|,|$)`)
)

// IsUniqueViolation reports whether err is a UNIQUE constraint failure on a
// non-primary-key column.
func IsUniqueViolation(err error) bool {
	code, ok := constraintCode(err)
	if ok {
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && !idColumn.MatchString(msg)
}

// IsPrimaryKeyViolation reports whether err is a PRIMARY KEY constraint
// failure, e.g. a random id that is already taken.
func IsPrimaryKeyViolation(err error) bool {
	code, ok := constraintCode(err)
	if ok {
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	msg := err.Error()
	return strings.Contains(msg, "PRIMARY KEY constraint failed") || idColumn.MatchString(msg)
}

// constraintCode returns the extended result code carried by err, from the
// driver error or, for errors that only kept the message, from its trailing
// "(code)". A nil err reports code 0.
func constraintCode(err error) (int, bool) {
	if err == nil {
		return 0, true
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() != sqlite3.SQLITE_CONSTRAINT {
		return se.Code(), true
	}
	if m := trailingCode.FindStringSubmatch(err.Error()); m != nil {
		if code, convErr := strconv.Atoi(m[1]); convErr == nil && code != sqlite3.SQLITE_CONSTRAINT {
			return code, true
		}
	}
	return 0, false
}
