package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const sqliteConstraintMarker = " constraint failed"

// DBError carries the driver fields of a failed statement.
type DBError struct {
	Driver     string `json:"driver"`
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ErrorDump is the flattened view of an error chain written to request.error logs.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
	Details    any      `json:"details,omitempty"`
	DB         *DBError `json:"db,omitempty"`
}

// Dump walks err and pulls out the typed code, details and any database driver error.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Details = te.Details()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.DB = dbError(err)
	return d
}

func dbError(err error) *DBError {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DBError{
			Driver:     "pgx",
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DBError{
			Driver:     "pq",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	// sqlite reports constraint failures only through the message, e.g.
	// "UNIQUE constraint failed: brands.slug"
	for e := err; e != nil; e = errors.Unwrap(e) {
		if out := sqliteConstraint(e.Error()); out != nil {
			return out
		}
	}
	return nil
}

func sqliteConstraint(msg string) *DBError {
	idx := strings.Index(msg, sqliteConstraintMarker)
	if idx < 0 {
		return nil
	}
	out := &DBError{Driver: "sqlite", Message: msg}
	if words := strings.Fields(msg[:idx]); len(words) > 0 {
		out.Code = words[len(words)-1]
	}
	if rest, ok := strings.CutPrefix(msg[idx+len(sqliteConstraintMarker):], ":"); ok {
		target := strings.TrimSpace(strings.Split(rest, ",")[0])
		if table, column, found := strings.Cut(target, "."); found {
			out.Table = table
			out.Column = column
		}
	}
	return out
}

// LogFields flattens the dump for logger.WithFields.
func (d ErrorDump) LogFields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.DB != nil {
		fields["db_driver"] = d.DB.Driver
		fields["db_code"] = d.DB.Code
		fields["db_constraint"] = d.DB.Constraint
		fields["db_table"] = d.DB.Table
		fields["db_column"] = d.DB.Column
		fields["db_detail"] = d.DB.Detail
		fields["db_message"] = d.DB.Message
	}
	return fields
}
