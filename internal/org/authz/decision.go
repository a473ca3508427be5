package authz

// Reason explains a denial. The HTTP layer maps these to status codes;
// CrossOrg and NotAMember are deliberately indistinguishable from not-found
// at the boundary so existence never leaks across organizations.
type Reason string

const (
	ReasonOK               Reason = ""
	ReasonNotAMember       Reason = "NOT_A_MEMBER"
	ReasonInsufficientRole Reason = "INSUFFICIENT_ROLE"
	ReasonRegionMismatch   Reason = "REGION_MISMATCH"
	ReasonCrossOrg         Reason = "CROSS_ORG"
	ReasonInvalidRegion    Reason = "INVALID_REGION"
	ReasonSelfRoleChange   Reason = "SELF_ROLE_CHANGE"
	ReasonSelfRemoval      Reason = "SELF_REMOVAL"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allow  bool
	Reason Reason
}

func Allowed() Decision { return Decision{Allow: true} }

func Denied(r Reason) Decision { return Decision{Allow: false, Reason: r} }
