package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// CalendarEntry is one VEVENT of an iCalendar export.
type CalendarEntry struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Category    string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// CalendarFeed is the content of one iCalendar document.
type CalendarFeed struct {
	Name        string
	Domain      string
	GeneratedAt time.Time
	Entries     []CalendarEntry
}

// ICSExporter renders calendar feeds as RFC 5545 documents.
type ICSExporter struct {
	productID string
}

// NewICSExporter builds an iCalendar exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//Parabellum//Unified Calendar//FR"
	}
	return &ICSExporter{productID: productID}
}

// Render produces the VCALENDAR bytes for feed. UIDs are qualified with feed.Domain so
// they stay unique across exports from different hosts.
func (e *ICSExporter) Render(feed CalendarFeed) ([]byte, error) {
	stamp := feed.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stamp = stamp.UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(e.productID)
	if feed.Name != "" {
		cal.SetXWRCalName(feed.Name)
	}

	for _, entry := range feed.Entries {
		if entry.UID == "" {
			return nil, fmt.Errorf("ics entry without uid")
		}
		if entry.End.Before(entry.Start) {
			return nil, fmt.Errorf("ics entry %s ends before it starts", entry.UID)
		}
		uid := entry.UID
		if feed.Domain != "" {
			uid = uid + "@" + feed.Domain
		}

		event := cal.AddEvent(uid)
		event.SetDtStampTime(stamp)
		if entry.AllDay {
			event.SetAllDayStartAt(entry.Start)
			event.SetAllDayEndAt(entry.End)
		} else {
			event.SetStartAt(entry.Start)
			event.SetEndAt(entry.End)
		}
		event.SetSummary(entry.Summary)
		if strings.TrimSpace(entry.Description) != "" {
			event.SetDescription(entry.Description)
		}
		if strings.TrimSpace(entry.Location) != "" {
			event.SetLocation(entry.Location)
		}
		if entry.Category != "" {
			event.SetProperty(ical.ComponentPropertyCategories, entry.Category)
		}
	}

	return []byte(cal.Serialize()), nil
}
