package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup or update matches no row.
var ErrNotFound = errors.New("record not found")

// Unique constraint names shared by the Postgres schema and the in-memory store.
const (
	ConstraintAccountEmail     = "accounts_email_key"
	ConstraintAccountUsername  = "accounts_username_key"
	ConstraintClaimPostClaimer = "claims_post_id_claimant_id_key"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

// UniqueViolation reports an insert rejected by a unique constraint.
type UniqueViolation struct {
	Constraint string
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("unique violation on %s", e.Constraint)
}

// IsUniqueViolation reports whether err is a unique violation on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var uv *UniqueViolation
	if !errors.As(err, &uv) {
		return false
	}
	return constraint == "" || uv.Constraint == constraint
}

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &UniqueViolation{Constraint: pgErr.ConstraintName}
		case pgForeignKeyViolation, pgInvalidText:
			// dangling references and malformed uuids both mean the target does not exist
			return ErrNotFound
		}
	}
	return err
}
