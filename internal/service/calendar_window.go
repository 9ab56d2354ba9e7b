package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
	appErrors "github.com/Kabre57/ParabellumGroups-sub000/pkg/errors"
)

// ResolveWindow turns the requested date range into the half-open window shared by every
// source fetch. Both bounds are calendar days in loc; the end day is inclusive, so the
// window stops at midnight of the following day. maxDays <= 0 disables the length cap.
func ResolveWindow(startRaw, endRaw string, loc *time.Location, maxDays int) (models.TimeWindow, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := parseWindowDate("startDate", startRaw, loc)
	if err != nil {
		return models.TimeWindow{}, err
	}
	end, err := parseWindowDate("endDate", endRaw, loc)
	if err != nil {
		return models.TimeWindow{}, err
	}
	if start.After(end) {
		return models.TimeWindow{}, appErrors.Clone(appErrors.ErrValidation, "startDate must not be after endDate")
	}

	window := models.TimeWindow{Start: start, EndExclusive: end.AddDate(0, 0, 1)}
	if maxDays > 0 && window.Days() > maxDays {
		return models.TimeWindow{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("date range must not exceed %d days", maxDays))
	}
	return window, nil
}

func parseWindowDate(field, raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, field+" is required")
	}
	parsed, err := time.ParseInLocation(models.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, field+" must use YYYY-MM-DD")
	}
	return parsed, nil
}
