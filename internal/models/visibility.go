package models

// VisibilityKind selects the shape of a visibility predicate. The zero value matches
// nothing so an unset predicate fails closed.
type VisibilityKind int

const (
	VisibilityNone VisibilityKind = iota
	VisibilityOwners
	VisibilityServiceOrSelf
	VisibilityAll
)

// String returns the log label of the kind.
func (k VisibilityKind) String() string {
	switch k {
	case VisibilityOwners:
		return "owners"
	case VisibilityServiceOrSelf:
		return "service_or_self"
	case VisibilityAll:
		return "all"
	default:
		return "none"
	}
}

// VisibilityPredicate describes which records of one source an actor may see.
// Repositories translate it into the source's own ownership path.
type VisibilityPredicate struct {
	Source    SourceTag
	Kind      VisibilityKind
	OwnerIDs  []int64
	ServiceID int64
	ActorID   int64
}

// RecordOwner is the ownership identity of a fetched record. MemberIDs carries users
// attached through an assignment table (interventions only).
type RecordOwner struct {
	UserID    *int64
	ServiceID *int64
	MemberIDs []int64
}

func (o RecordOwner) ownedByAny(ids []int64) bool {
	for _, id := range ids {
		if o.UserID != nil && *o.UserID == id {
			return true
		}
		for _, member := range o.MemberIDs {
			if member == id {
				return true
			}
		}
	}
	return false
}

// Matches evaluates the predicate in memory with the same semantics as the SQL translation.
func (p VisibilityPredicate) Matches(owner RecordOwner) bool {
	switch p.Kind {
	case VisibilityAll:
		return true
	case VisibilityOwners:
		return owner.ownedByAny(p.OwnerIDs)
	case VisibilityServiceOrSelf:
		if owner.ServiceID != nil && *owner.ServiceID == p.ServiceID {
			return true
		}
		return owner.ownedByAny([]int64{p.ActorID})
	default:
		return false
	}
}
