package models

import "time"

// SourceTag identifies the origin system of a unified event.
type SourceTag string

const (
	SourceCalendarEvent SourceTag = "CALENDAR_EVENT"
	SourceTimeOff       SourceTag = "TIMEOFF"
	SourceIntervention  SourceTag = "INTERVENTION"
)

// Sources returns the sources in fetch order. Merge ties follow this order.
func Sources() []SourceTag {
	return []SourceTag{SourceCalendarEvent, SourceTimeOff, SourceIntervention}
}

// ParseSourceTag reports whether raw names a source.
func ParseSourceTag(raw string) (SourceTag, bool) {
	for _, tag := range Sources() {
		if string(tag) == raw {
			return tag, true
		}
	}
	return "", false
}

// UnifiedEvent is the per-request, never persisted timeline entry merged across sources.
type UnifiedEvent struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   *string     `json:"description,omitempty"`
	StartTime     time.Time   `json:"startTime"`
	EndTime       time.Time   `json:"endTime"`
	SourceTag     SourceTag   `json:"sourceTag"`
	Type          string      `json:"type"`
	Priority      string      `json:"priority"`
	IsAllDay      bool        `json:"isAllDay"`
	Location      *string     `json:"location,omitempty"`
	OwnerUserID   *int64      `json:"ownerUserId,omitempty"`
	OwnerDisplay  string      `json:"ownerDisplay"`
	SourcePayload interface{} `json:"sourcePayload"`
}
