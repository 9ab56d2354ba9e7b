package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
)

// QueryObserver receives query timings, typically the metrics service.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (b *whereBuilder) arg(value interface{}) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) add(clause string) {
	b.clauses = append(b.clauses, clause)
}

func (b *whereBuilder) sql() string {
	if len(b.clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(b.clauses, " AND ")
}

// ownership tells the builder how a source reaches the user that owns a row.
type ownership struct {
	userColumn    string
	serviceColumn string
	// memberExists is an optional EXISTS sub-select with one %s placeholder for the id array.
	memberExists string
}

func (o ownership) ownedBy(placeholder string) string {
	clause := fmt.Sprintf("%s = ANY(%s)", o.userColumn, placeholder)
	if o.memberExists == "" {
		return clause
	}
	return fmt.Sprintf("(%s OR %s)", clause, fmt.Sprintf(o.memberExists, placeholder))
}

// visibility appends the SQL form of p. It mirrors VisibilityPredicate.Matches.
func (b *whereBuilder) visibility(p models.VisibilityPredicate, o ownership) {
	switch p.Kind {
	case models.VisibilityAll:
		return
	case models.VisibilityOwners:
		b.add(o.ownedBy(b.arg(pq.Array(p.OwnerIDs))))
	case models.VisibilityServiceOrSelf:
		service := b.arg(p.ServiceID)
		self := b.arg(pq.Array([]int64{p.ActorID}))
		b.add(fmt.Sprintf("(%s = %s OR %s)", o.serviceColumn, service, o.ownedBy(self)))
	default:
		b.add("FALSE")
	}
}

func (b *whereBuilder) anyOf(column string, values []string) {
	if len(values) == 0 {
		return
	}
	b.add(fmt.Sprintf("%s = ANY(%s)", column, b.arg(pq.Array(values))))
}

func observe(observer QueryObserver, label string, start time.Time) {
	if observer == nil {
		return
	}
	observer.ObserveDBQuery(label, time.Since(start))
}
