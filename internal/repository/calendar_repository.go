package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
)

const calendarEventSelect = `SELECT e.id, e.calendar_id, e.title, e.description, e.start_time, e.end_time, e.type, e.priority, e.is_all_day,
       e.location, e.reminder, e.created_by_id, e.created_at, e.updated_at,
       c.user_id AS owner_id, c.name AS calendar_name, u.first_name AS owner_first_name, u.last_name AS owner_last_name,
       u.service_id AS owner_service_id, cb.first_name AS creator_first_name, cb.last_name AS creator_last_name
FROM calendar_events e
JOIN calendars c ON c.id = e.calendar_id
JOIN users u ON u.id = c.user_id
LEFT JOIN users cb ON cb.id = e.created_by_id`

var calendarEventOwnership = ownership{userColumn: "c.user_id", serviceColumn: "u.service_id"}

// CalendarRepository reads generic calendar events.
type CalendarRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewCalendarRepository constructs a calendar repository.
func NewCalendarRepository(db *sqlx.DB, observer QueryObserver) *CalendarRepository {
	return &CalendarRepository{db: db, observer: observer}
}

// ListInWindow returns the events overlapping filter.Window that filter.Visibility allows,
// ordered by start time then id.
func (r *CalendarRepository) ListInWindow(ctx context.Context, filter models.CalendarEventFilter) ([]models.CalendarEventRecord, error) {
	b := &whereBuilder{}
	b.add(fmt.Sprintf("e.start_time < %s", b.arg(filter.Window.EndExclusive)))
	b.add(fmt.Sprintf("e.end_time > %s", b.arg(filter.Window.Start)))
	b.visibility(filter.Visibility, calendarEventOwnership)
	b.anyOf("e.type", filter.Types)

	query := fmt.Sprintf("%s\nWHERE %s\nORDER BY e.start_time ASC, e.id ASC", calendarEventSelect, b.sql())

	defer observe(r.observer, "calendar_events.list_in_window", time.Now())
	events := make([]models.CalendarEventRecord, 0)
	if err := r.db.SelectContext(ctx, &events, query, b.args...); err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}
