package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
)

const interventionSelect = `SELECT i.id, i.mission_id, i.user_id, i.start_time, i.end_time, i.status, i.comment, i.created_at, i.updated_at,
       m.reference AS mission_reference, m.nature AS mission_nature, m.objective AS mission_objective, cl.name AS client_name,
       u.first_name AS owner_first_name, u.last_name AS owner_last_name, u.service_id AS owner_service_id,
       COALESCE((
           SELECT json_agg(json_build_object('id', t.id, 'userId', t.user_id, 'firstName', t.first_name, 'lastName', t.last_name, 'role', it.role) ORDER BY t.id)
           FROM intervention_technicians it
           JOIN technicians t ON t.id = it.technician_id
           WHERE it.intervention_id = i.id
       ), '[]'::json) AS technicians
FROM interventions i
JOIN missions m ON m.id = i.mission_id
LEFT JOIN clients cl ON cl.id = m.client_id
LEFT JOIN users u ON u.id = i.user_id`

const technicianMembership = `EXISTS (SELECT 1 FROM intervention_technicians vit JOIN technicians vt ON vt.id = vit.technician_id
WHERE vit.intervention_id = i.id AND vt.user_id = ANY(%s))`

// Interventions are owned by the dispatched user and by every technician assigned
// through intervention_technicians.
var interventionOwnership = ownership{
	userColumn:    "i.user_id",
	serviceColumn: "u.service_id",
	memberExists:  technicianMembership,
}

// InterventionRepository reads field-service interventions.
type InterventionRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewInterventionRepository constructs an intervention repository.
func NewInterventionRepository(db *sqlx.DB, observer QueryObserver) *InterventionRepository {
	return &InterventionRepository{db: db, observer: observer}
}

// ListInWindow returns the interventions overlapping filter.Window together with their
// mission, client, assignee and technicians in a single statement. Rows without an end
// are treated as instants.
func (r *InterventionRepository) ListInWindow(ctx context.Context, filter models.InterventionFilter) ([]models.InterventionRecord, error) {
	b := &whereBuilder{}
	b.add(fmt.Sprintf("i.start_time < %s", b.arg(filter.Window.EndExclusive)))
	start := b.arg(filter.Window.Start)
	b.add(fmt.Sprintf("(i.end_time > %s OR (i.end_time IS NULL AND i.start_time >= %s))", start, start))
	b.visibility(filter.Visibility, interventionOwnership)
	b.anyOf("i.status", filter.Statuses)

	query := fmt.Sprintf("%s\nWHERE %s\nORDER BY i.start_time ASC, i.id ASC", interventionSelect, b.sql())

	defer observe(r.observer, "interventions.list_in_window", time.Now())
	items := make([]models.InterventionRecord, 0)
	if err := r.db.SelectContext(ctx, &items, query, b.args...); err != nil {
		return nil, fmt.Errorf("list interventions: %w", err)
	}
	return items, nil
}
