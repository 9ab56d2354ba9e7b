package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeWindowBoundaries(t *testing.T) {
	w := TimeWindow{
		Start:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndExclusive: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(time.Date(2025, 6, 7, 23, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(w.EndExclusive))

	assert.True(t, w.Overlaps(time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC)))
	assert.False(t, w.Overlaps(time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), w.Start))
	assert.False(t, w.Overlaps(w.EndExclusive, w.EndExclusive.Add(time.Hour)))
	assert.Equal(t, 7, w.Days())
}

func TestTimeWindowOpenEnded(t *testing.T) {
	w := TimeWindow{
		Start:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndExclusive: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
	}
	before := time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC)
	inside := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.False(t, w.OverlapsOpenEnded(before, nil))
	assert.True(t, w.OverlapsOpenEnded(w.Start, nil))
	assert.True(t, w.OverlapsOpenEnded(before, &inside))
	assert.True(t, w.OverlapsOpenEnded(inside, &inside))
	start := w.Start
	assert.False(t, w.OverlapsOpenEnded(w.Start, &start))
}

func TestTimeOffInLocationKeepsCalendarDays(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatal(err)
	}
	off := TimeOff{
		StartDate: time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
	}

	pinned := off.InLocation(paris)
	assert.Equal(t, time.Date(2025, 5, 30, 0, 0, 0, 0, paris), pinned.StartDate)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, paris), pinned.EndExclusive())
	assert.Equal(t, time.UTC, off.InLocation(nil).StartDate.Location())

	window := TimeWindow{
		Start:        time.Date(2025, 6, 1, 0, 0, 0, 0, paris),
		EndExclusive: time.Date(2025, 6, 8, 0, 0, 0, 0, paris),
	}
	assert.False(t, window.Overlaps(pinned.StartDate, pinned.EndExclusive()))
}
