package domain

import "github.com/google/uuid"

// ActorType identifies who initiated an action.
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeAdmin  ActorType = "admin"
	ActorTypeSystem ActorType = "system"
)

// RequestContext carries the caller's identity and correlation ids through
// every service call.
type RequestContext struct {
	RequestID string
	TraceID   string
	TenantID  uuid.UUID
	ActorID   uuid.UUID
	ActorType ActorType
	IPAddress string
	ClientID  string // user agent
}

// SystemContext is used by background jobs acting on a tenant's data.
func SystemContext(tenantID uuid.UUID, traceID string) RequestContext {
	return RequestContext{
		TraceID:   traceID,
		TenantID:  tenantID,
		ActorType: ActorTypeSystem,
	}
}

// AsSystem keeps tenant and correlation ids but attributes the action to the system.
func (rc RequestContext) AsSystem() RequestContext {
	rc.ActorType = ActorTypeSystem
	rc.ActorID = uuid.Nil
	return rc
}

// IsAdmin reports whether the caller holds the admin role.
func (rc RequestContext) IsAdmin() bool {
	return rc.ActorType == ActorTypeAdmin
}

// LogFields returns the correlation fields attached to every log line.
func (rc RequestContext) LogFields() map[string]string {
	f := map[string]string{
		"request_id": rc.RequestID,
		"trace_id":   rc.TraceID,
		"actor_type": string(rc.ActorType),
	}
	if rc.TenantID != uuid.Nil {
		f["tenant_id"] = rc.TenantID.String()
	}
	if rc.ActorID != uuid.Nil {
		f["actor_id"] = rc.ActorID.String()
	}
	return f
}
