package service

import (
	"sort"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
)

// CalendarEventVisibility decides which generic events actor may see. Events belong to
// the user owning their calendar.
func CalendarEventVisibility(actor models.Actor, override []int64) models.VisibilityPredicate {
	return visibilityFor(models.SourceCalendarEvent, actor, override)
}

// TimeOffVisibility decides which leave requests actor may see. Service scoping goes
// through the calendar's user, the same indirection as generic events.
func TimeOffVisibility(actor models.Actor, override []int64) models.VisibilityPredicate {
	return visibilityFor(models.SourceTimeOff, actor, override)
}

// InterventionVisibility decides which interventions actor may see. Ownership covers the
// dispatched user and every assigned technician.
func InterventionVisibility(actor models.Actor, override []int64) models.VisibilityPredicate {
	return visibilityFor(models.SourceIntervention, actor, override)
}

// visibilityFor is pure. The override is trusted here: the permission layer already
// decided whether actor may pass one.
func visibilityFor(source models.SourceTag, actor models.Actor, override []int64) models.VisibilityPredicate {
	if len(override) > 0 {
		return models.VisibilityPredicate{Source: source, Kind: models.VisibilityOwners, OwnerIDs: normalizeIDs(override)}
	}

	self := models.VisibilityPredicate{Source: source, Kind: models.VisibilityOwners, OwnerIDs: []int64{actor.ID}}
	switch actor.Role {
	case models.RoleAdmin:
		return models.VisibilityPredicate{Source: source, Kind: models.VisibilityAll}
	case models.RoleGeneralDirector, models.RoleServiceManager:
		if !actor.HasService() {
			return self
		}
		return models.VisibilityPredicate{
			Source:    source,
			Kind:      models.VisibilityServiceOrSelf,
			ServiceID: *actor.ServiceID,
			ActorID:   actor.ID,
		}
	case models.RoleAccountant:
		// Financial calendars would widen this once they exist.
		return self
	case models.RoleEmployee, models.RolePurchasingManager, models.RoleTechnician:
		return self
	default:
		return self
	}
}

func normalizeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
