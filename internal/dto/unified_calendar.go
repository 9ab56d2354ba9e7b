package dto

import "github.com/Kabre57/ParabellumGroups-sub000/internal/models"

// UnifiedCalendarRequest captures the query of GET /calendar/unified after parsing.
// UserIDs is the explicit visibility override; it reaches the service only after the
// permission layer accepted it.
type UnifiedCalendarRequest struct {
	StartDate            string   `query:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate              string   `query:"endDate" validate:"required,datetime=2006-01-02"`
	Types                []string `query:"types" validate:"dive,required"`
	UserIDs              []int64  `query:"userIds" validate:"dive,gt=0"`
	IncludeTimeOffs      bool     `query:"includeTimeOffs"`
	IncludeInterventions bool     `query:"includeInterventions"`
	Statuses             []string `query:"status" validate:"dive,required"`
}

// UnifiedCalendarWindow echoes the resolved window.
type UnifiedCalendarWindow struct {
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Resolved  models.TimeWindow `json:"resolved"`
}

// UnifiedCalendarMetadata summarises a timeline response.
type UnifiedCalendarMetadata struct {
	Total          int                      `json:"total"`
	CountsBySource map[models.SourceTag]int `json:"countsBySource"`
	Window         UnifiedCalendarWindow    `json:"window"`
	Actor          models.Actor             `json:"actor"`
	Override       bool                     `json:"override"`
}

// UnifiedCalendarResponse is the data payload of GET /calendar/unified.
type UnifiedCalendarResponse struct {
	Events   []models.UnifiedEvent   `json:"events"`
	Metadata UnifiedCalendarMetadata `json:"metadata"`
}
