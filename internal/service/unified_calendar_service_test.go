package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/dto"
	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
	appErrors "github.com/Kabre57/ParabellumGroups-sub000/pkg/errors"
)

type fakeEventSource struct {
	mu      sync.Mutex
	records []models.CalendarEventRecord
	err     error
	delay   time.Duration
	calls   int32
	filters []models.CalendarEventFilter
}

func (f *fakeEventSource) ListInWindow(ctx context.Context, filter models.CalendarEventFilter) ([]models.CalendarEventRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if err := wait(ctx, f.delay); err != nil {
		return nil, err
	}
	return f.records, f.err
}

type fakeTimeOffSource struct {
	mu      sync.Mutex
	records []models.TimeOffRecord
	err     error
	delay   time.Duration
	calls   int32
	filters []models.TimeOffFilter
}

func (f *fakeTimeOffSource) ListInWindow(ctx context.Context, filter models.TimeOffFilter) ([]models.TimeOffRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if err := wait(ctx, f.delay); err != nil {
		return nil, err
	}
	return f.records, f.err
}

type fakeInterventionSource struct {
	mu      sync.Mutex
	records []models.InterventionRecord
	err     error
	delay   time.Duration
	calls   int32
	filters []models.InterventionFilter
}

func (f *fakeInterventionSource) ListInWindow(ctx context.Context, filter models.InterventionFilter) ([]models.InterventionRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if err := wait(ctx, f.delay); err != nil {
		return nil, err
	}
	return f.records, f.err
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func int64Ptr(v int64) *int64 { return &v }

func calendarEvent(id, owner, service int64, start time.Time) models.CalendarEventRecord {
	return models.CalendarEventRecord{
		CalendarEvent: models.CalendarEvent{
			ID:         id,
			CalendarID: owner * 10,
			Title:      "Réunion de service",
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			Type:       "MEETING",
			Priority:   "HIGH",
		},
		OwnerID:        owner,
		OwnerFirstName: "Yao",
		OwnerLastName:  "Kouassi",
		OwnerServiceID: int64Ptr(service),
	}
}

func timeOff(id, owner, service int64, first, last time.Time) models.TimeOffRecord {
	return models.TimeOffRecord{
		TimeOff: models.TimeOff{
			ID:         id,
			CalendarID: owner * 10,
			StartDate:  first,
			EndDate:    last,
			Type:       "ANNUAL",
			Status:     models.TimeOffApproved,
		},
		OwnerID:        owner,
		OwnerFirstName: "Mariam",
		OwnerLastName:  "Diallo",
		OwnerServiceID: int64Ptr(service),
	}
}

func intervention(id, user, service int64, start time.Time) models.InterventionRecord {
	end := start.Add(3 * time.Hour)
	return models.InterventionRecord{
		Intervention: models.Intervention{
			ID:        id,
			MissionID: 40,
			UserID:    int64Ptr(user),
			StartTime: start,
			EndTime:   &end,
			Status:    models.InterventionPlanned,
		},
		MissionNature:  "Maintenance climatisation",
		OwnerServiceID: int64Ptr(service),
		Technicians:    models.TechnicianList{},
	}
}

type calendarFixture struct {
	events        *fakeEventSource
	timeOffs      *fakeTimeOffSource
	interventions *fakeInterventionSource
	service       *UnifiedCalendarService
}

func newCalendarFixture(cfg UnifiedCalendarServiceConfig) *calendarFixture {
	day := func(d, h, m int) time.Time { return time.Date(2025, 6, d, h, m, 0, 0, time.UTC) }
	f := &calendarFixture{
		events: &fakeEventSource{records: []models.CalendarEventRecord{
			calendarEvent(1, 7, 3, day(3, 9, 0)),
		}},
		timeOffs: &fakeTimeOffSource{records: []models.TimeOffRecord{
			timeOff(5, 9, 4, day(2, 0, 0), day(4, 0, 0)),
		}},
		interventions: &fakeInterventionSource{records: []models.InterventionRecord{
			intervention(3, 7, 3, day(5, 8, 30)),
		}},
	}
	f.service = NewUnifiedCalendarService(UnifiedCalendarServiceParams{
		Events:        f.events,
		TimeOffs:      f.timeOffs,
		Interventions: f.interventions,
		Config:        cfg,
	})
	return f
}

func juneRequest() dto.UnifiedCalendarRequest {
	return dto.UnifiedCalendarRequest{
		StartDate:            "2025-06-01",
		EndDate:              "2025-06-07",
		IncludeTimeOffs:      true,
		IncludeInterventions: true,
	}
}

func eventIDs(events []models.UnifiedEvent) []string {
	ids := make([]string, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}
	return ids
}

func (f *calendarFixture) totalCalls() int32 {
	return atomic.LoadInt32(&f.events.calls) + atomic.LoadInt32(&f.timeOffs.calls) + atomic.LoadInt32(&f.interventions.calls)
}

func TestAggregateEmployeeSeesOwnRecordsOnly(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})

	resp, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 7, Role: models.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, []string{"CALENDAR_EVENT-1", "INTERVENTION-3"}, eventIDs(resp.Events))
	assert.Equal(t, 2, resp.Metadata.Total)
	assert.Equal(t, 0, resp.Metadata.CountsBySource[models.SourceTimeOff])
	assert.Equal(t, models.VisibilityOwners, f.timeOffs.filters[0].Visibility.Kind)
	assert.Equal(t, []int64{7}, f.timeOffs.filters[0].Visibility.OwnerIDs)
}

func TestAggregateAdminSeesEverythingSorted(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})

	resp, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []string{"TIMEOFF-5", "CALENDAR_EVENT-1", "INTERVENTION-3"}, eventIDs(resp.Events))
	assert.Equal(t, map[models.SourceTag]int{
		models.SourceCalendarEvent: 1,
		models.SourceTimeOff:       1,
		models.SourceIntervention:  1,
	}, resp.Metadata.CountsBySource)
	for i := 1; i < len(resp.Events); i++ {
		assert.False(t, resp.Events[i].StartTime.Before(resp.Events[i-1].StartTime))
	}

	timeOffEvent := resp.Events[0]
	assert.Equal(t, "Congé - ANNUAL - Mariam Diallo", timeOffEvent.Title)
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), timeOffEvent.EndTime)
	assert.True(t, timeOffEvent.IsAllDay)
}

func TestAggregateServiceManagerSeesServiceAndSelf(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})

	resp, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 12, Role: models.RoleServiceManager, ServiceID: int64Ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, []string{"TIMEOFF-5"}, eventIDs(resp.Events))
	assert.Equal(t, models.VisibilityServiceOrSelf, f.interventions.filters[0].Visibility.Kind)
	assert.Equal(t, int64(4), f.interventions.filters[0].Visibility.ServiceID)
}

func TestAggregateExcludesTimeOffsWhenDisabled(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	req := juneRequest()
	req.IncludeTimeOffs = false

	resp, err := f.service.Aggregate(context.Background(), req, &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	for _, event := range resp.Events {
		assert.NotEqual(t, models.SourceTimeOff, event.SourceTag)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.timeOffs.calls))
	assert.Equal(t, 0, resp.Metadata.CountsBySource[models.SourceTimeOff])
}

func TestAggregateInvertedWindowIssuesNoQueries(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	req := juneRequest()
	req.StartDate, req.EndDate = "2025-06-07", "2025-06-01"

	resp, err := f.service.Aggregate(context.Background(), req, &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, int32(0), f.totalCalls())
}

func TestAggregateValidationNamesField(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	cases := map[string]struct {
		mutate  func(*dto.UnifiedCalendarRequest)
		message string
	}{
		"missing start": {func(r *dto.UnifiedCalendarRequest) { r.StartDate = "" }, "startDate is required"},
		"bad end":       {func(r *dto.UnifiedCalendarRequest) { r.EndDate = "07/06/2025" }, "invalid endDate"},
		"bad user id":   {func(r *dto.UnifiedCalendarRequest) { r.UserIDs = []int64{-4} }, "invalid userIds[0]"},
		"bad status":    {func(r *dto.UnifiedCalendarRequest) { r.Statuses = []string{"DONE"} }, "invalid status"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := juneRequest()
			tc.mutate(&req)
			_, err := f.service.Aggregate(context.Background(), req, &models.Actor{ID: 1, Role: models.RoleAdmin})
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
	assert.Equal(t, int32(0), f.totalCalls())
}

func TestAggregateRejectsWindowsOverTheCap(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{MaxWindowDays: 31})
	req := juneRequest()
	req.EndDate = "2025-08-01"

	_, err := f.service.Aggregate(context.Background(), req, &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, int32(0), f.totalCalls())
}

func TestAggregateRequiresActor(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})

	_, err := f.service.Aggregate(context.Background(), juneRequest(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrAuthContextMissing)
	assert.Equal(t, int32(0), f.totalCalls())
}

func TestAggregateFailsWholeTimelineOnSourceError(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	f.interventions.err = errors.New("pq: relation \"interventions\" does not exist")

	resp, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, appErrors.ErrSourceFetch)

	public := appErrors.Public(err)
	assert.Equal(t, appErrors.ErrSourceFetch.Message, public.Message)
	assert.NotContains(t, public.Message, "pq:")
}

func TestAggregateTimeoutAbandonsFetches(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{FetchTimeout: 20 * time.Millisecond})
	f.timeOffs.delay = time.Second

	started := time.Now()
	_, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrSourceFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), 500*time.Millisecond)
}

func TestAggregateIsIdempotent(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	actor := &models.Actor{ID: 1, Role: models.RoleAdmin}

	first, err := f.service.Aggregate(context.Background(), juneRequest(), actor)
	require.NoError(t, err)
	second, err := f.service.Aggregate(context.Background(), juneRequest(), actor)
	require.NoError(t, err)

	a, err := json.Marshal(first.Events)
	require.NoError(t, err)
	b, err := json.Marshal(second.Events)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestAggregateOrderDoesNotDependOnCompletionOrder(t *testing.T) {
	sameStart := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	run := func(eventDelay, timeOffDelay, interventionDelay time.Duration) string {
		f := newCalendarFixture(UnifiedCalendarServiceConfig{})
		f.events.records = append(f.events.records, calendarEvent(2, 7, 3, sameStart))
		f.interventions.records = append(f.interventions.records, intervention(8, 7, 3, sameStart))
		f.events.delay = eventDelay
		f.timeOffs.delay = timeOffDelay
		f.interventions.delay = interventionDelay

		resp, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 1, Role: models.RoleAdmin})
		require.NoError(t, err)
		raw, err := json.Marshal(resp.Events)
		require.NoError(t, err)
		return string(raw)
	}

	baseline := run(0, 0, 0)
	assert.Equal(t, baseline, run(30*time.Millisecond, 0, 10*time.Millisecond))
	assert.Equal(t, baseline, run(0, 20*time.Millisecond, 0))
	assert.Equal(t, baseline, run(10*time.Millisecond, 20*time.Millisecond, 30*time.Millisecond))
}

func TestAggregateTieBreaksBySourceOrder(t *testing.T) {
	sameStart := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	f.events.records = []models.CalendarEventRecord{calendarEvent(1, 7, 3, sameStart)}
	f.timeOffs.records = []models.TimeOffRecord{timeOff(5, 7, 3, sameStart, sameStart)}
	f.interventions.records = []models.InterventionRecord{intervention(3, 7, 3, sameStart)}
	f.events.delay = 20 * time.Millisecond

	resp, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 7, Role: models.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, []string{"CALENDAR_EVENT-1", "TIMEOFF-5", "INTERVENTION-3"}, eventIDs(resp.Events))
}

func TestAggregateIncludesWholeEndDate(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	f.events.records = []models.CalendarEventRecord{
		calendarEvent(10, 7, 3, time.Date(2025, 6, 7, 23, 59, 0, 0, time.UTC)),
		calendarEvent(11, 7, 3, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)),
	}

	resp, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 7, Role: models.RoleEmployee})
	require.NoError(t, err)
	assert.Contains(t, eventIDs(resp.Events), "CALENDAR_EVENT-10")
	assert.NotContains(t, eventIDs(resp.Events), "CALENDAR_EVENT-11")
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), f.events.filters[0].Window.EndExclusive)
}

func TestAggregateThreadsSameWindowToEverySource(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	f := newCalendarFixture(UnifiedCalendarServiceConfig{Location: paris})

	_, err = f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	window := f.events.filters[0].Window
	assert.Equal(t, window, f.timeOffs.filters[0].Window)
	assert.Equal(t, window, f.interventions.filters[0].Window)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, paris), window.Start)
}

func TestAggregateComparesTimeOffsAsLocalDays(t *testing.T) {
	utcDay := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }
	cases := map[string]struct {
		zone    string
		records []models.TimeOffRecord
		want    []string
	}{
		"east of utc": {
			zone: "Europe/Paris",
			records: []models.TimeOffRecord{
				timeOff(1, 9, 4, utcDay(time.May, 30), utcDay(time.May, 31)),
				timeOff(2, 9, 4, utcDay(time.June, 1), utcDay(time.June, 1)),
				timeOff(3, 9, 4, utcDay(time.June, 7), utcDay(time.June, 9)),
			},
			want: []string{"TIMEOFF-2", "TIMEOFF-3"},
		},
		"west of utc": {
			zone: "America/New_York",
			records: []models.TimeOffRecord{
				timeOff(1, 9, 4, utcDay(time.May, 31), utcDay(time.May, 31)),
				timeOff(2, 9, 4, utcDay(time.June, 1), utcDay(time.June, 1)),
				timeOff(3, 9, 4, utcDay(time.June, 8), utcDay(time.June, 9)),
			},
			want: []string{"TIMEOFF-2"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			loc, err := time.LoadLocation(tc.zone)
			require.NoError(t, err)
			f := newCalendarFixture(UnifiedCalendarServiceConfig{Location: loc})
			f.events.records = nil
			f.interventions.records = nil
			f.timeOffs.records = tc.records

			resp, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 1, Role: models.RoleAdmin})
			require.NoError(t, err)
			assert.Equal(t, tc.want, eventIDs(resp.Events))
			assert.True(t, resp.Events[0].StartTime.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, loc)))
			assert.True(t, resp.Events[0].EndTime.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, loc)))
		})
	}
}

func TestAggregateOverrideReplacesRoleScope(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	req := juneRequest()
	req.UserIDs = []int64{9, 9, 4}

	resp, err := f.service.Aggregate(context.Background(), req, &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, resp.Metadata.Override)
	assert.Equal(t, []string{"TIMEOFF-5"}, eventIDs(resp.Events))
	for _, visibility := range []models.VisibilityPredicate{
		f.events.filters[0].Visibility,
		f.timeOffs.filters[0].Visibility,
		f.interventions.filters[0].Visibility,
	} {
		assert.Equal(t, models.VisibilityOwners, visibility.Kind)
		assert.Equal(t, []int64{4, 9}, visibility.OwnerIDs)
	}
}

func TestAggregateSplitsTypesAndStatuses(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	req := juneRequest()
	req.Types = []string{"MEETING"}
	req.Statuses = []string{"approved", "PLANNED", "CANCELLED"}

	_, err := f.service.Aggregate(context.Background(), req, &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []string{"MEETING"}, f.events.filters[0].Types)
	assert.Equal(t, []string{"APPROVED", "CANCELLED"}, f.timeOffs.filters[0].Statuses)
	assert.Equal(t, []string{"PLANNED", "CANCELLED"}, f.interventions.filters[0].Statuses)
}

func TestAggregateSourceTagsSelectSources(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	req := juneRequest()
	req.Types = []string{"timeoff"}

	resp, err := f.service.Aggregate(context.Background(), req, &models.Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []string{"TIMEOFF-5"}, eventIDs(resp.Events))
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.events.calls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.interventions.calls))
}

func TestAggregateDropsRowsOutsideVisibility(t *testing.T) {
	f := newCalendarFixture(UnifiedCalendarServiceConfig{})
	f.interventions.records[0].Technicians = models.TechnicianList{{ID: 2, UserID: int64Ptr(21), FirstName: "Ibrahim", LastName: "Sanogo"}}
	f.interventions.records[0].UserID = int64Ptr(30)

	resp, err := f.service.Aggregate(context.Background(), juneRequest(), &models.Actor{ID: 21, Role: models.RoleTechnician})
	require.NoError(t, err)
	assert.Equal(t, []string{"INTERVENTION-3"}, eventIDs(resp.Events))
}
