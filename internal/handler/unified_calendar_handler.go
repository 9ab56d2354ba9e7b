package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/dto"
	"github.com/Kabre57/ParabellumGroups-sub000/internal/middleware"
	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
	appErrors "github.com/Kabre57/ParabellumGroups-sub000/pkg/errors"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/export"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/logger"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/response"
)

type unifiedCalendarService interface {
	Aggregate(ctx context.Context, req dto.UnifiedCalendarRequest, actor *models.Actor) (*dto.UnifiedCalendarResponse, error)
}

type calendarRenderer interface {
	Render(feed export.CalendarFeed) ([]byte, error)
}

// UnifiedCalendarHandler exposes the merged calendar timeline.
type UnifiedCalendarHandler struct {
	service  unifiedCalendarService
	renderer calendarRenderer
	logger   *zap.Logger
	domain   string
	now      func() time.Time
}

// NewUnifiedCalendarHandler constructs the handler. renderer may be nil when the
// iCalendar export is disabled.
func NewUnifiedCalendarHandler(service unifiedCalendarService, renderer calendarRenderer, log *zap.Logger, domain string) *UnifiedCalendarHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UnifiedCalendarHandler{service: service, renderer: renderer, logger: log, domain: domain, now: time.Now}
}

// List godoc
// @Summary Unified calendar timeline
// @Description Merges calendar events, time-offs and interventions visible to the caller.
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD), inclusive"
// @Param types query string false "Comma separated source tags or event types"
// @Param userIds query string false "Comma separated user ids (privileged roles only)"
// @Param includeTimeOffs query bool false "Include time-offs" default(true)
// @Param includeInterventions query bool false "Include interventions" default(true)
// @Param status query string false "Comma separated time-off or intervention statuses"
// @Success 200 {object} response.Envelope{data=dto.UnifiedCalendarResponse}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /calendar/unified [get]
func (h *UnifiedCalendarHandler) List(c *gin.Context) {
	result, ok := h.aggregate(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}

// ICS godoc
// @Summary Unified calendar as iCalendar
// @Tags Calendar
// @Produce text/calendar
// @Security BearerAuth
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD), inclusive"
// @Param types query string false "Comma separated source tags or event types"
// @Param userIds query string false "Comma separated user ids (privileged roles only)"
// @Param includeTimeOffs query bool false "Include time-offs" default(true)
// @Param includeInterventions query bool false "Include interventions" default(true)
// @Param status query string false "Comma separated statuses"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /calendar/unified.ics [get]
func (h *UnifiedCalendarHandler) ICS(c *gin.Context) {
	if h.renderer == nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	result, ok := h.aggregate(c)
	if !ok {
		return
	}

	feed := export.CalendarFeed{
		Name:        "Calendrier unifié",
		Domain:      h.domain,
		GeneratedAt: h.now(),
		Entries:     make([]export.CalendarEntry, 0, len(result.Events)),
	}
	for _, event := range result.Events {
		feed.Entries = append(feed.Entries, calendarEntry(event))
	}
	body, err := h.renderer.Render(feed)
	if err != nil {
		logger.WithRequest(h.logger, c).Error("render unified calendar ics", zap.Error(err))
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("calendar-%s-%s.ics", result.Metadata.Window.StartDate, result.Metadata.Window.EndDate)
	response.Attachment(c, filename, "text/calendar; charset=utf-8", body)
}

func (h *UnifiedCalendarHandler) aggregate(c *gin.Context) (*dto.UnifiedCalendarResponse, bool) {
	req, err := parseUnifiedCalendarQuery(c)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	// A missing actor is passed through; the service fails closed on it.
	actor, _ := middleware.ActorFromContext(c)
	result, err := h.service.Aggregate(c.Request.Context(), req, actor)
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Status >= http.StatusInternalServerError || appErr.Code == appErrors.ErrAuthContextMissing.Code {
			logger.WithRequest(h.logger, c).Error("unified calendar failed", zap.String("code", appErr.Code), zap.Error(err))
		}
		response.Error(c, err)
		return nil, false
	}
	return result, true
}

func parseUnifiedCalendarQuery(c *gin.Context) (dto.UnifiedCalendarRequest, error) {
	req := dto.UnifiedCalendarRequest{
		StartDate: pickQuery(c, "startDate", "start_date"),
		EndDate:   pickQuery(c, "endDate", "end_date"),
		Types:     splitList(c.QueryArray("types")),
		Statuses:  splitList(c.QueryArray("status")),
	}

	for _, raw := range middleware.OverrideTargets(c) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return dto.UnifiedCalendarRequest{}, appErrors.Clone(appErrors.ErrValidation, "invalid userIds")
		}
		req.UserIDs = append(req.UserIDs, id)
	}

	var err error
	if req.IncludeTimeOffs, err = queryBool(c, "includeTimeOffs", true); err != nil {
		return dto.UnifiedCalendarRequest{}, err
	}
	if req.IncludeInterventions, err = queryBool(c, "includeInterventions", true); err != nil {
		return dto.UnifiedCalendarRequest{}, err
	}
	return req, nil
}

func queryBool(c *gin.Context, key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, appErrors.Clone(appErrors.ErrValidation, "invalid "+key)
	}
	return value, nil
}

// splitList accepts both repeated parameters and comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func pickQuery(c *gin.Context, preferred string, fallback string) string {
	if value := c.Query(preferred); value != "" {
		return value
	}
	return c.Query(fallback)
}

func calendarEntry(event models.UnifiedEvent) export.CalendarEntry {
	entry := export.CalendarEntry{
		UID:      event.ID,
		Summary:  event.Title,
		Category: string(event.SourceTag),
		Start:    event.StartTime,
		End:      event.EndTime,
		AllDay:   event.IsAllDay,
	}
	if event.Description != nil {
		entry.Description = *event.Description
	}
	if event.Location != nil {
		entry.Location = *event.Location
	}
	if event.OwnerDisplay != "" {
		entry.Description = strings.TrimSpace(entry.Description + "\n" + event.OwnerDisplay)
	}
	return entry
}
