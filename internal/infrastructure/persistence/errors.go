package persistence

import (
	"errors"

	"github.com/lib/pq"

	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
)

// Postgres error codes the ledger cares about.
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
	pgSerialization    = "40001"
	pgDeadlockDetected = "40P01"
)

// translateObligationError maps driver-level errors on obligation writes to
// domain errors. A unique violation can only come from the charge identity
// key, so it surfaces as DuplicateObligation.
func translateObligationError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return ledger.ErrDuplicateObligation
		case pgLockNotAvailable, pgSerialization, pgDeadlockDetected:
			return shared.ErrConcurrencyConflict
		}
	}
	return err
}

// translateLockError maps lock acquisition failures to the shared
// concurrency error so callers can retry the unit of work.
func translateLockError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgLockNotAvailable, pgSerialization, pgDeadlockDetected:
			return shared.ErrConcurrencyConflict
		}
	}
	return err
}
