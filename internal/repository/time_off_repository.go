package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
)

const timeOffSelect = `SELECT t.id, t.calendar_id, t.start_date, t.end_date, t.type, t.status, t.reason, t.approved_by_id, t.created_at, t.updated_at,
       c.user_id AS owner_id, u.first_name AS owner_first_name, u.last_name AS owner_last_name, u.service_id AS owner_service_id,
       a.first_name AS approver_first_name, a.last_name AS approver_last_name
FROM time_offs t
JOIN calendars c ON c.id = t.calendar_id
JOIN users u ON u.id = c.user_id
LEFT JOIN users a ON a.id = t.approved_by_id`

// Time-off rows reach their owner through the calendar, like generic events.
var timeOffOwnership = ownership{userColumn: "c.user_id", serviceColumn: "u.service_id"}

// TimeOffRepository reads leave requests.
type TimeOffRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewTimeOffRepository constructs a time-off repository.
func NewTimeOffRepository(db *sqlx.DB, observer QueryObserver) *TimeOffRepository {
	return &TimeOffRepository{db: db, observer: observer}
}

// ListInWindow returns the leave requests overlapping filter.Window. end_date is the last
// day off. The window is passed as dates in its own zone so date columns compare against
// calendar days rather than session-zone instants.
func (r *TimeOffRepository) ListInWindow(ctx context.Context, filter models.TimeOffFilter) ([]models.TimeOffRecord, error) {
	b := &whereBuilder{}
	b.add(fmt.Sprintf("t.start_date < %s::date", b.arg(filter.Window.EndExclusive.Format(models.DateLayout))))
	b.add(fmt.Sprintf("t.end_date >= %s::date", b.arg(filter.Window.Start.Format(models.DateLayout))))
	b.visibility(filter.Visibility, timeOffOwnership)
	b.anyOf("t.status", filter.Statuses)

	query := fmt.Sprintf("%s\nWHERE %s\nORDER BY t.start_date ASC, t.id ASC", timeOffSelect, b.sql())

	defer observe(r.observer, "time_offs.list_in_window", time.Now())
	items := make([]models.TimeOffRecord, 0)
	if err := r.db.SelectContext(ctx, &items, query, b.args...); err != nil {
		return nil, fmt.Errorf("list time offs: %w", err)
	}
	return items, nil
}
