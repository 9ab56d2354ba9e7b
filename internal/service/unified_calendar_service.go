package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/dto"
	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
	appErrors "github.com/Kabre57/ParabellumGroups-sub000/pkg/errors"
)

type calendarEventSource interface {
	ListInWindow(ctx context.Context, filter models.CalendarEventFilter) ([]models.CalendarEventRecord, error)
}

type timeOffSource interface {
	ListInWindow(ctx context.Context, filter models.TimeOffFilter) ([]models.TimeOffRecord, error)
}

type interventionSource interface {
	ListInWindow(ctx context.Context, filter models.InterventionFilter) ([]models.InterventionRecord, error)
}

type calendarMetrics interface {
	ObserveSourceFetch(source models.SourceTag, duration time.Duration, err error)
	RecordSourceEvents(source models.SourceTag, count int)
}

// UnifiedCalendarServiceConfig tunes the aggregation.
type UnifiedCalendarServiceConfig struct {
	Location      *time.Location
	FetchTimeout  time.Duration
	MaxWindowDays int
}

// UnifiedCalendarServiceParams groups constructor dependencies.
type UnifiedCalendarServiceParams struct {
	Events        calendarEventSource
	TimeOffs      timeOffSource
	Interventions interventionSource
	Metrics       calendarMetrics
	Logger        *zap.Logger
	Config        UnifiedCalendarServiceConfig
}

// UnifiedCalendarService merges calendar events, time-offs and interventions into one
// role-filtered timeline.
type UnifiedCalendarService struct {
	events        calendarEventSource
	timeOffs      timeOffSource
	interventions interventionSource
	metrics       calendarMetrics
	validator     *validator.Validate
	logger        *zap.Logger
	cfg           UnifiedCalendarServiceConfig
}

// NewUnifiedCalendarService constructs the aggregation service.
func NewUnifiedCalendarService(params UnifiedCalendarServiceParams) *UnifiedCalendarService {
	cfg := params.Config
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnifiedCalendarService{
		events:        params.Events,
		timeOffs:      params.TimeOffs,
		interventions: params.Interventions,
		metrics:       params.Metrics,
		validator:     newQueryValidator(),
		logger:        logger,
		cfg:           cfg,
	}
}

// sourcePlan is what one request asks of each source.
type sourcePlan struct {
	events               bool
	timeOffs             bool
	interventions        bool
	eventTypes           []string
	timeOffStatuses      []string
	interventionStatuses []string
}

// Aggregate resolves the window, applies the per-source visibility of actor, fetches the
// three sources concurrently and returns the merged timeline. Any source failure fails
// the whole call; partial timelines are never returned.
func (s *UnifiedCalendarService) Aggregate(ctx context.Context, req dto.UnifiedCalendarRequest, actor *models.Actor) (*dto.UnifiedCalendarResponse, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrAuthContextMissing, "")
	}
	snapshot := *actor
	if actor.ServiceID != nil {
		serviceID := *actor.ServiceID
		snapshot.ServiceID = &serviceID
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	window, err := ResolveWindow(req.StartDate, req.EndDate, s.cfg.Location, s.cfg.MaxWindowDays)
	if err != nil {
		return nil, err
	}
	plan, err := planSources(req)
	if err != nil {
		return nil, err
	}

	fetchCtx := ctx
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	var streams [3][]models.UnifiedEvent
	group, groupCtx := errgroup.WithContext(fetchCtx)
	if plan.events {
		visibility := CalendarEventVisibility(snapshot, req.UserIDs)
		group.Go(func() error {
			events, err := s.fetch(groupCtx, models.SourceCalendarEvent, func(ctx context.Context) ([]models.UnifiedEvent, error) {
				records, err := s.events.ListInWindow(ctx, models.CalendarEventFilter{Window: window, Visibility: visibility, Types: plan.eventTypes})
				if err != nil {
					return nil, err
				}
				out := make([]models.UnifiedEvent, 0, len(records))
				for _, record := range records {
					if visibility.Matches(record.Owner()) && window.Overlaps(record.StartTime, record.EndTime) {
						out = append(out, NormalizeCalendarEvent(record))
					}
				}
				return out, nil
			})
			streams[0] = events
			return err
		})
	}
	if plan.timeOffs {
		visibility := TimeOffVisibility(snapshot, req.UserIDs)
		group.Go(func() error {
			events, err := s.fetch(groupCtx, models.SourceTimeOff, func(ctx context.Context) ([]models.UnifiedEvent, error) {
				records, err := s.timeOffs.ListInWindow(ctx, models.TimeOffFilter{Window: window, Visibility: visibility, Statuses: plan.timeOffStatuses})
				if err != nil {
					return nil, err
				}
				out := make([]models.UnifiedEvent, 0, len(records))
				for _, record := range records {
					record.TimeOff = record.TimeOff.InLocation(window.Start.Location())
					if visibility.Matches(record.Owner()) && window.Overlaps(record.StartDate, record.EndExclusive()) {
						out = append(out, NormalizeTimeOff(record))
					}
				}
				return out, nil
			})
			streams[1] = events
			return err
		})
	}
	if plan.interventions {
		visibility := InterventionVisibility(snapshot, req.UserIDs)
		group.Go(func() error {
			events, err := s.fetch(groupCtx, models.SourceIntervention, func(ctx context.Context) ([]models.UnifiedEvent, error) {
				records, err := s.interventions.ListInWindow(ctx, models.InterventionFilter{Window: window, Visibility: visibility, Statuses: plan.interventionStatuses})
				if err != nil {
					return nil, err
				}
				out := make([]models.UnifiedEvent, 0, len(records))
				for _, record := range records {
					if visibility.Matches(record.Owner()) && window.OverlapsOpenEnded(record.StartTime, record.EndTime) {
						out = append(out, NormalizeIntervention(record))
					}
				}
				return out, nil
			})
			streams[2] = events
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	events := MergeTimeline(streams[0], streams[1], streams[2])
	counts := make(map[models.SourceTag]int, len(models.Sources()))
	for _, tag := range models.Sources() {
		counts[tag] = 0
	}
	for _, event := range events {
		counts[event.SourceTag]++
	}

	s.logger.Debug("unified calendar aggregated",
		zap.Int64("actor_id", snapshot.ID),
		zap.String("actor_role", string(snapshot.Role)),
		zap.Time("window_start", window.Start),
		zap.Time("window_end", window.EndExclusive),
		zap.Int("total", len(events)),
		zap.Bool("override", len(req.UserIDs) > 0),
	)

	return &dto.UnifiedCalendarResponse{
		Events: events,
		Metadata: dto.UnifiedCalendarMetadata{
			Total:          len(events),
			CountsBySource: counts,
			Window: dto.UnifiedCalendarWindow{
				StartDate: strings.TrimSpace(req.StartDate),
				EndDate:   strings.TrimSpace(req.EndDate),
				Resolved:  window,
			},
			Actor:    snapshot,
			Override: len(req.UserIDs) > 0,
		},
	}, nil
}

// fetch runs one source pipeline. Storage errors are logged here and replaced by the
// generic source failure so nothing from the store reaches the client.
func (s *UnifiedCalendarService) fetch(ctx context.Context, source models.SourceTag, run func(context.Context) ([]models.UnifiedEvent, error)) ([]models.UnifiedEvent, error) {
	started := time.Now()
	events, err := run(ctx)
	if s.metrics != nil {
		s.metrics.ObserveSourceFetch(source, time.Since(started), err)
	}
	if err != nil {
		s.logger.Error("calendar source fetch failed", zap.String("source", string(source)), zap.Error(err))
		return nil, appErrors.Wrap(fmt.Errorf("%s: %w", source, err), appErrors.ErrSourceFetch.Code, appErrors.ErrSourceFetch.Status, appErrors.ErrSourceFetch.Message)
	}
	if s.metrics != nil {
		s.metrics.RecordSourceEvents(source, len(events))
	}
	return events, nil
}

// planSources splits the types and status filters over the sources. Source tags in types
// select sources; other types filter the generic event type. Status values go to every
// source whose vocabulary contains them.
func planSources(req dto.UnifiedCalendarRequest) (sourcePlan, error) {
	plan := sourcePlan{events: true, timeOffs: true, interventions: true}

	selected := map[models.SourceTag]bool{}
	for _, raw := range req.Types {
		value := strings.TrimSpace(raw)
		if tag, ok := models.ParseSourceTag(strings.ToUpper(value)); ok {
			selected[tag] = true
			continue
		}
		if value != "" {
			plan.eventTypes = append(plan.eventTypes, value)
		}
	}
	if len(selected) > 0 {
		plan.events = selected[models.SourceCalendarEvent]
		plan.timeOffs = selected[models.SourceTimeOff]
		plan.interventions = selected[models.SourceIntervention]
	}
	plan.timeOffs = plan.timeOffs && req.IncludeTimeOffs
	plan.interventions = plan.interventions && req.IncludeInterventions

	for _, raw := range req.Statuses {
		value := strings.ToUpper(strings.TrimSpace(raw))
		known := false
		if containsString(models.TimeOffStatuses(), value) {
			plan.timeOffStatuses = appendUnique(plan.timeOffStatuses, value)
			known = true
		}
		if containsString(models.InterventionStatuses(), value) {
			plan.interventionStatuses = appendUnique(plan.interventionStatuses, value)
			known = true
		}
		if !known {
			return sourcePlan{}, appErrors.Clone(appErrors.ErrValidation, "invalid status")
		}
	}
	return plan, nil
}

func newQueryValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validationError names the offending field and never echoes its value.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0].Field()
		if fieldErrs[0].Tag() == "required" {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, field+" is required")
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+field)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar query")
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func appendUnique(values []string, value string) []string {
	if containsString(values, value) {
		return values
	}
	return append(values, value)
}
