package shared

import (
	"context"

	"github.com/google/uuid"
)

// TenantContext identifies the tenant and acting user for a core operation.
// It is supplied by the surrounding application layer and threaded explicitly
// into every service call; the core never resolves the "current" tenant
// itself.
type TenantContext struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
}

// NewTenantContext creates a TenantContext for the given tenant and actor
func NewTenantContext(tenantID, actorID uuid.UUID) TenantContext {
	return TenantContext{TenantID: tenantID, ActorID: actorID}
}

// Validate returns an error if the context is missing a tenant id
func (tc TenantContext) Validate() error {
	if tc.TenantID == uuid.Nil {
		return NewDomainError("VALIDATION_ERROR", "Tenant ID is required")
	}
	return nil
}

type ctxKey int

const tenantCtxKey ctxKey = iota

// WithTenant tags a context with the tenant an operation runs for, so
// infrastructure such as the query logger can attribute work to a tenant
// without threading TenantContext through every signature.
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantCtxKey, tenantID.String())
}

// TenantFromContext returns the tenant id set by WithTenant, or an empty
// string when the context is untagged.
func TenantFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(tenantCtxKey).(string); ok {
		return id
	}
	return ""
}
