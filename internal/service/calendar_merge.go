package service

import (
	"sort"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
)

// MergeTimeline concatenates the per-source streams in the order given and sorts them by
// start time. The sort is stable, so equal starts keep source order then row order.
func MergeTimeline(streams ...[]models.UnifiedEvent) []models.UnifiedEvent {
	total := 0
	for _, stream := range streams {
		total += len(stream)
	}
	merged := make([]models.UnifiedEvent, 0, total)
	for _, stream := range streams {
		merged = append(merged, stream...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime.Before(merged[j].StartTime)
	})
	return merged
}
