package domain

import "github.com/google/uuid"

// Scope restricts repository access to a single organization. Every query
// against organization-owned data takes a Scope; the zero value is unusable,
// forcing callers to name how they obtained tenancy.
//
// The two constructors are deliberately distinct so cross-tenant access is
// visible at the call site:
//
//   - ForOrganization pins the scope to one organization, whether that id
//     came from the request context or was chosen explicitly by an admin or
//     background job.
//   - AllOrganizations removes the organization predicate entirely. It is the
//     only way to read or write across tenants and must never be reachable
//     from a tenant-facing request path.
type Scope struct {
	org uuid.UUID
	all bool
}

// ForOrganization returns a scope restricted to the given organization.
func ForOrganization(orgID uuid.UUID) Scope {
	return Scope{org: orgID}
}

// AllOrganizations returns the cross-tenant escape hatch used by webhook
// reconciliation, admin listings, and migration tasks.
func AllOrganizations() Scope {
	return Scope{all: true}
}

// All reports whether the scope spans every organization.
func (s Scope) All() bool { return s.all }

// OrganizationID returns the pinned organization, or uuid.Nil for a
// cross-tenant scope.
func (s Scope) OrganizationID() uuid.UUID {
	if s.all {
		return uuid.Nil
	}
	return s.org
}

// Valid reports whether the scope is usable: either cross-tenant or pinned to
// a concrete organization. The zero Scope is invalid.
func (s Scope) Valid() bool {
	return s.all || s.org != uuid.Nil
}

// Stamp fills in an unset organization id on a record about to be created.
// An explicitly supplied id is never overwritten, and a cross-tenant scope
// stamps nothing.
func (s Scope) Stamp(orgID *uuid.UUID) {
	if *orgID == uuid.Nil && !s.all {
		*orgID = s.org
	}
}
