package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// InterventionStatus is the dispatch state of a field intervention.
type InterventionStatus string

const (
	InterventionPlanned    InterventionStatus = "PLANNED"
	InterventionInProgress InterventionStatus = "IN_PROGRESS"
	InterventionCompleted  InterventionStatus = "COMPLETED"
	InterventionCancelled  InterventionStatus = "CANCELLED"
)

// InterventionStatuses is the native status vocabulary of the intervention source.
func InterventionStatuses() []string {
	return []string{string(InterventionPlanned), string(InterventionInProgress), string(InterventionCompleted), string(InterventionCancelled)}
}

// Intervention is one dispatch of a field-service mission.
type Intervention struct {
	ID        int64              `db:"id" json:"id"`
	MissionID int64              `db:"mission_id" json:"missionId"`
	UserID    *int64             `db:"user_id" json:"userId,omitempty"`
	StartTime time.Time          `db:"start_time" json:"startTime"`
	EndTime   *time.Time         `db:"end_time" json:"endTime,omitempty"`
	Status    InterventionStatus `db:"status" json:"status"`
	Comment   *string            `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `db:"updated_at" json:"updatedAt"`
}

// AssignedTechnician is a technician linked to an intervention through the join table.
type AssignedTechnician struct {
	ID        int64   `json:"id"`
	UserID    *int64  `json:"userId,omitempty"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      *string `json:"role,omitempty"`
}

// TechnicianList decodes the json_agg column of the intervention query.
type TechnicianList []AssignedTechnician

// Scan implements sql.Scanner.
func (l *TechnicianList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = TechnicianList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("technician list: unsupported source %T", src)
	}
	items := TechnicianList{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("technician list: %w", err)
	}
	*l = items
	return nil
}

// Value implements driver.Valuer.
func (l TechnicianList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// InterventionRecord enriches an intervention with mission, client, assignee and technicians.
type InterventionRecord struct {
	Intervention
	MissionReference *string        `db:"mission_reference" json:"missionReference,omitempty"`
	MissionNature    string         `db:"mission_nature" json:"missionNature"`
	MissionObjective *string        `db:"mission_objective" json:"missionObjective,omitempty"`
	ClientName       *string        `db:"client_name" json:"clientName,omitempty"`
	OwnerFirstName   *string        `db:"owner_first_name" json:"ownerFirstName,omitempty"`
	OwnerLastName    *string        `db:"owner_last_name" json:"ownerLastName,omitempty"`
	OwnerServiceID   *int64         `db:"owner_service_id" json:"ownerServiceId,omitempty"`
	Technicians      TechnicianList `db:"technicians" json:"technicians"`
}

// Owner returns the visibility identity of the record: the dispatched user plus every
// technician whose account is linked to a user.
func (r InterventionRecord) Owner() RecordOwner {
	owner := RecordOwner{UserID: r.UserID, ServiceID: r.OwnerServiceID}
	for _, tech := range r.Technicians {
		if tech.UserID != nil {
			owner.MemberIDs = append(owner.MemberIDs, *tech.UserID)
		}
	}
	return owner
}

// InterventionFilter narrows the intervention fetch.
type InterventionFilter struct {
	Window     TimeWindow
	Visibility VisibilityPredicate
	Statuses   []string
}
