package ledger

import (
	"github.com/strata/backend/internal/domain/shared"
)

// Ledger error taxonomy. DuplicateObligation is the only one generators
// swallow; everything else aborts the surrounding unit of work.
var (
	// ErrNothingToAllocate aborts a settle transaction whose every requested
	// allocation capped to zero. Callers translate it into a nil settlement,
	// not a failure.
	ErrNothingToAllocate = shared.NewDomainError("NOTHING_TO_ALLOCATE", "All requested allocations capped to zero")

	// ErrObligationHasSettlements refuses deletion of an obligation that
	// allocation items already point at.
	ErrObligationHasSettlements = shared.NewDomainError("OBLIGATION_HAS_SETTLEMENTS", "Obligation has collected amounts and cannot be deleted")

	// ErrDuplicateObligation signals that an equivalent charge already exists
	// for (tenant, apartment, period, account). Benign during generation.
	ErrDuplicateObligation = shared.NewDomainError("DUPLICATE_OBLIGATION", "An obligation for this apartment, period and account already exists")

	// ErrInvalidDateRange rejects statement requests where to < from.
	ErrInvalidDateRange = shared.NewDomainError("VALIDATION_ERROR", "Statement range end cannot be before its start")
)
