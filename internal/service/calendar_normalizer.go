package service

import (
	"fmt"
	"strings"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
)

const defaultPriority = "NORMAL"

// UnifiedEventID builds the timeline id of a source record. Every normalizer goes through
// it so ids stay unique across sources sharing numeric sequences.
func UnifiedEventID(tag models.SourceTag, id int64) string {
	return fmt.Sprintf("%s-%d", tag, id)
}

// NormalizeCalendarEvent maps a generic event onto the timeline shape.
func NormalizeCalendarEvent(record models.CalendarEventRecord) models.UnifiedEvent {
	ownerID := record.OwnerID
	return models.UnifiedEvent{
		ID:            UnifiedEventID(models.SourceCalendarEvent, record.ID),
		Title:         record.Title,
		Description:   record.Description,
		StartTime:     record.StartTime,
		EndTime:       record.EndTime,
		SourceTag:     models.SourceCalendarEvent,
		Type:          record.Type,
		Priority:      record.Priority,
		IsAllDay:      record.IsAllDay,
		Location:      record.Location,
		OwnerUserID:   &ownerID,
		OwnerDisplay:  models.DisplayName(record.OwnerFirstName, record.OwnerLastName),
		SourcePayload: record,
	}
}

// NormalizeTimeOff maps a leave request onto the timeline. It spans whole days up to the
// morning after its last day.
func NormalizeTimeOff(record models.TimeOffRecord) models.UnifiedEvent {
	ownerID := record.OwnerID
	owner := models.DisplayName(record.OwnerFirstName, record.OwnerLastName)
	return models.UnifiedEvent{
		ID:            UnifiedEventID(models.SourceTimeOff, record.ID),
		Title:         joinTitle("Congé", record.Type, owner),
		Description:   record.Reason,
		StartTime:     record.StartDate,
		EndTime:       record.EndExclusive(),
		SourceTag:     models.SourceTimeOff,
		Type:          record.Type,
		Priority:      defaultPriority,
		IsAllDay:      true,
		OwnerUserID:   &ownerID,
		OwnerDisplay:  owner,
		SourcePayload: record,
	}
}

// NormalizeIntervention maps an intervention onto the timeline. Open interventions become
// zero-length markers at their start.
func NormalizeIntervention(record models.InterventionRecord) models.UnifiedEvent {
	end := record.StartTime
	if record.EndTime != nil {
		end = *record.EndTime
	}
	var ownerID *int64
	if record.UserID != nil {
		id := *record.UserID
		ownerID = &id
	}
	return models.UnifiedEvent{
		ID:            UnifiedEventID(models.SourceIntervention, record.ID),
		Title:         joinTitle("Intervention", record.MissionNature),
		Description:   record.Comment,
		StartTime:     record.StartTime,
		EndTime:       end,
		SourceTag:     models.SourceIntervention,
		Type:          string(record.Status),
		Priority:      defaultPriority,
		Location:      record.ClientName,
		OwnerUserID:   ownerID,
		OwnerDisplay:  models.DisplayName(stringValue(record.OwnerFirstName), stringValue(record.OwnerLastName)),
		SourcePayload: record,
	}
}

func joinTitle(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " - ")
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
