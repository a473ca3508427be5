// Package authz is the pure authorization core: the capability table, the
// region scoping rules, and the gate that composes them into allow/deny
// decisions. Nothing here performs I/O; membership and region snapshots are
// fetched by the service layer and passed in, which keeps every decision
// testable without a database.
package authz

import "github.com/yohannes4321/MissionForNation/internal/org/domain"

// Action is an operation on a resource kind.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionCancel Action = "cancel" // invitation revocation
)

// ResourceKind is the class of resource a capability applies to.
type ResourceKind string

const (
	KindOrganization ResourceKind = "organization"
	KindMember       ResourceKind = "member"
	KindInvitation   ResourceKind = "invitation"
	KindRegion       ResourceKind = "region"
	KindContent      ResourceKind = "content"
)

// Scope qualifies a granted action.
type Scope int

const (
	// ScopeNone: the action is not granted.
	ScopeNone Scope = iota
	// ScopeRegion: granted only within the actor's assigned region.
	ScopeRegion
	// ScopeOrganization: granted anywhere in the actor's organization.
	ScopeOrganization
)

type grant map[Action]Scope

// capabilities is the full grant table. Every (role, kind) pair is present
// so Capability is total over the enums; absent actions mean ScopeNone.
var capabilities = map[domain.Role]map[ResourceKind]grant{
	domain.RoleMember: {
		KindOrganization: {ActionRead: ScopeOrganization},
		KindMember:       {ActionRead: ScopeOrganization},
		KindInvitation:   {},
		KindRegion:       {ActionRead: ScopeOrganization},
		KindContent: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
		},
	},
	domain.RoleRegionalAdmin: {
		KindOrganization: {ActionRead: ScopeOrganization},
		KindMember:       {ActionRead: ScopeOrganization},
		KindInvitation:   {},
		KindRegion:       {ActionRead: ScopeOrganization},
		KindContent: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeRegion,
			ActionUpdate: ScopeRegion,
			ActionDelete: ScopeRegion,
		},
	},
	domain.RoleAdmin: {
		KindOrganization: {
			ActionRead:   ScopeOrganization,
			ActionUpdate: ScopeOrganization,
		},
		KindMember: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionUpdate: ScopeOrganization,
			ActionDelete: ScopeOrganization,
		},
		KindInvitation: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionCancel: ScopeOrganization,
		},
		KindRegion: {ActionRead: ScopeOrganization},
		KindContent: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionUpdate: ScopeOrganization,
			ActionDelete: ScopeOrganization,
		},
	},
	domain.RoleOwner: {
		KindOrganization: {
			ActionRead:   ScopeOrganization,
			ActionUpdate: ScopeOrganization,
			ActionDelete: ScopeOrganization,
		},
		KindMember: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionUpdate: ScopeOrganization,
			ActionDelete: ScopeOrganization,
		},
		KindInvitation: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionCancel: ScopeOrganization,
		},
		KindRegion: {ActionRead: ScopeOrganization},
		KindContent: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionUpdate: ScopeOrganization,
			ActionDelete: ScopeOrganization,
		},
	},
	domain.RoleSuperAdmin: {
		KindOrganization: {
			ActionRead:   ScopeOrganization,
			ActionUpdate: ScopeOrganization,
			ActionDelete: ScopeOrganization,
		},
		KindMember: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionUpdate: ScopeOrganization,
			ActionDelete: ScopeOrganization,
		},
		KindInvitation: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionCancel: ScopeOrganization,
		},
		KindRegion: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionUpdate: ScopeOrganization,
			ActionDelete: ScopeOrganization,
		},
		KindContent: {
			ActionRead:   ScopeOrganization,
			ActionCreate: ScopeOrganization,
			ActionUpdate: ScopeOrganization,
			ActionDelete: ScopeOrganization,
		},
	},
}

// Capability returns the scope at which role may perform action on kind.
// Total over the enums: unknown pairs return ScopeNone.
func Capability(role domain.Role, kind ResourceKind, action Action) Scope {
	return capabilities[role][kind][action]
}

// Capabilities returns the full action set for a (role, kind) pair,
// possibly empty, never nil.
func Capabilities(role domain.Role, kind ResourceKind) map[Action]Scope {
	out := make(map[Action]Scope)
	for act, scope := range capabilities[role][kind] {
		out[act] = scope
	}
	return out
}
