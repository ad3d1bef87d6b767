package icsexport

import (
	"strings"
	"testing"
	"time"

	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/meeting"
)

func TestCalendarEmitsOneEventPerMeeting(t *testing.T) {
	sections := []catalog.Section{
		{
			ID: 1, Department: "CS", Number: "2110", SectionLabel: "001", Type: catalog.Lecture,
			Instructor: []string{"A. Turing"},
			Meetings: []meeting.MeetingTime{
				{Days: meeting.Monday | meeting.Wednesday | meeting.Friday, Start: 600, End: 650},
			},
		},
	}
	start := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	cal, err := Calendar(sections, start, end, time.UTC)
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}

	rendered := cal.Serialize()
	if !strings.Contains(rendered, "BYDAY=MO,WE,FR") {
		t.Fatalf("expected BYDAY=MO,WE,FR in output, got:\n%s", rendered)
	}
	if strings.Count(rendered, "BEGIN:VEVENT") != 1 {
		t.Fatalf("expected exactly one VEVENT, got:\n%s", rendered)
	}
}

func TestCalendarSkipsTBA(t *testing.T) {
	sections := []catalog.Section{
		{ID: 2, Department: "CS", Number: "2110", Type: catalog.Lecture, Meetings: []meeting.MeetingTime{{TBA: true}}},
	}
	cal, err := Calendar(sections, time.Now(), time.Now(), nil)
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}
	if strings.Contains(cal.Serialize(), "BEGIN:VEVENT") {
		t.Fatalf("expected no VEVENT for an all-TBA section")
	}
}
