package models

import "time"

// TimeOffStatus is the lifecycle state of a leave request.
type TimeOffStatus string

const (
	TimeOffPending   TimeOffStatus = "PENDING"
	TimeOffApproved  TimeOffStatus = "APPROVED"
	TimeOffRejected  TimeOffStatus = "REJECTED"
	TimeOffCancelled TimeOffStatus = "CANCELLED"
)

// TimeOffStatuses is the native status vocabulary of the time-off source.
func TimeOffStatuses() []string {
	return []string{string(TimeOffPending), string(TimeOffApproved), string(TimeOffRejected), string(TimeOffCancelled)}
}

// TimeOff is a leave request attached to a calendar. StartDate and EndDate are
// calendar days; EndDate is the last day off, inclusive.
type TimeOff struct {
	ID           int64         `db:"id" json:"id"`
	CalendarID   int64         `db:"calendar_id" json:"calendarId"`
	StartDate    time.Time     `db:"start_date" json:"startDate"`
	EndDate      time.Time     `db:"end_date" json:"endDate"`
	Type         string        `db:"type" json:"type"`
	Status       TimeOffStatus `db:"status" json:"status"`
	Reason       *string       `db:"reason" json:"reason,omitempty"`
	ApprovedByID *int64        `db:"approved_by_id" json:"approvedById,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// EndExclusive returns the instant right after the last day off.
func (t TimeOff) EndExclusive() time.Time {
	return t.EndDate.AddDate(0, 0, 1)
}

// InLocation pins the calendar days of t to midnight in loc. Date columns carry no zone,
// so a day off is read as that day in the zone of the window it is compared against.
func (t TimeOff) InLocation(loc *time.Location) TimeOff {
	t.StartDate = midnightIn(t.StartDate, loc)
	t.EndDate = midnightIn(t.EndDate, loc)
	return t
}

func midnightIn(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// TimeOffRecord enriches a time-off with owner and approver display fields.
type TimeOffRecord struct {
	TimeOff
	OwnerID           int64   `db:"owner_id" json:"ownerId"`
	OwnerFirstName    string  `db:"owner_first_name" json:"ownerFirstName"`
	OwnerLastName     string  `db:"owner_last_name" json:"ownerLastName"`
	OwnerServiceID    *int64  `db:"owner_service_id" json:"ownerServiceId,omitempty"`
	ApproverFirstName *string `db:"approver_first_name" json:"approverFirstName,omitempty"`
	ApproverLastName  *string `db:"approver_last_name" json:"approverLastName,omitempty"`
}

// Owner returns the visibility identity of the record.
func (r TimeOffRecord) Owner() RecordOwner {
	return RecordOwner{UserID: &r.OwnerID, ServiceID: r.OwnerServiceID}
}

// TimeOffFilter narrows the time-off fetch.
type TimeOffFilter struct {
	Window     TimeWindow
	Visibility VisibilityPredicate
	Statuses   []string
}
