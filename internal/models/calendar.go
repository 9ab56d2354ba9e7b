package models

import "time"

// CalendarEvent is a generic calendar entry. Ownership goes through its calendar:
// the calendar's user owns the event, regardless of who created it.
type CalendarEvent struct {
	ID          int64     `db:"id" json:"id"`
	CalendarID  int64     `db:"calendar_id" json:"calendarId"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	StartTime   time.Time `db:"start_time" json:"startTime"`
	EndTime     time.Time `db:"end_time" json:"endTime"`
	Type        string    `db:"type" json:"type"`
	Priority    string    `db:"priority" json:"priority"`
	IsAllDay    bool      `db:"is_all_day" json:"isAllDay"`
	Location    *string   `db:"location" json:"location,omitempty"`
	Reminder    *int      `db:"reminder" json:"reminder,omitempty"`
	CreatedByID *int64    `db:"created_by_id" json:"createdById,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// CalendarEventRecord enriches an event with its owner and creator display fields.
type CalendarEventRecord struct {
	CalendarEvent
	OwnerID          int64   `db:"owner_id" json:"ownerId"`
	OwnerFirstName   string  `db:"owner_first_name" json:"ownerFirstName"`
	OwnerLastName    string  `db:"owner_last_name" json:"ownerLastName"`
	OwnerServiceID   *int64  `db:"owner_service_id" json:"ownerServiceId,omitempty"`
	CalendarName     string  `db:"calendar_name" json:"calendarName"`
	CreatorFirstName *string `db:"creator_first_name" json:"creatorFirstName,omitempty"`
	CreatorLastName  *string `db:"creator_last_name" json:"creatorLastName,omitempty"`
}

// Owner returns the visibility identity of the record.
func (r CalendarEventRecord) Owner() RecordOwner {
	return RecordOwner{UserID: &r.OwnerID, ServiceID: r.OwnerServiceID}
}

// CalendarEventFilter narrows the generic event fetch.
type CalendarEventFilter struct {
	Window     TimeWindow
	Visibility VisibilityPredicate
	Types      []string
}
