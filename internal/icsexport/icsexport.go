// Package icsexport renders a resolved set of sections as a downloadable
// calendar: one recurring event per scheduled weekly meeting, plus a
// prefilled Google Calendar template link for single events.
package icsexport

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/meeting"
	"github.com/awesome-schedule/plannable/internal/utils"
)

// byDayCodes maps a meeting.Weekday bit to its RRULE BYDAY token, in
// canonical weekly order.
var byDayCodes = []struct {
	day  meeting.Weekday
	code string
}{
	{meeting.Monday, "MO"},
	{meeting.Tuesday, "TU"},
	{meeting.Wednesday, "WE"},
	{meeting.Thursday, "TH"},
	{meeting.Friday, "FR"},
	{meeting.Saturday, "SA"},
	{meeting.Sunday, "SU"},
}

// timeWeekday maps a meeting.Weekday bit to its time.Weekday equivalent, used
// to find the first occurrence on or after a term's start date.
var timeWeekday = map[meeting.Weekday]time.Weekday{
	meeting.Monday:    time.Monday,
	meeting.Tuesday:   time.Tuesday,
	meeting.Wednesday: time.Wednesday,
	meeting.Thursday:  time.Thursday,
	meeting.Friday:    time.Friday,
	meeting.Saturday:  time.Saturday,
	meeting.Sunday:    time.Sunday,
}

// Calendar renders sections as a calendar covering the span
// [termStart, termEnd], one recurring VEVENT per Scheduled meeting. TBA
// meetings are skipped: per the core's own invariant a section with a TBA
// meeting can never appear in an emitted Schedule, so this only matters for
// callers exporting a raw section list outside of find_schedules.
func Calendar(sections []catalog.Section, termStart, termEnd time.Time, loc *time.Location) (*ics.Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	termStart = termStart.In(loc)
	termEnd = termEnd.In(loc)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//plannable//schedule export//EN")

	now := termStart

	for _, section := range sections {
		for idx, m := range section.Meetings {
			if m.TBA {
				continue
			}
			if err := addEvent(cal, section, m, idx, termStart, termEnd, loc, now); err != nil {
				return nil, err
			}
		}
	}

	return cal, nil
}

func addEvent(cal *ics.Calendar, section catalog.Section, m meeting.MeetingTime, idx int, termStart, termEnd time.Time, loc *time.Location, stampedAt time.Time) error {
	days, byDay := weekdayTokens(m.Days)
	if len(days) == 0 {
		return fmt.Errorf("section %d meeting %d has no weekdays set", section.ID, idx)
	}

	first := firstOccurrence(termStart, days[0])
	start := time.Date(first.Year(), first.Month(), first.Day(), int(m.Start)/60, int(m.Start)%60, 0, 0, loc)
	end := time.Date(first.Year(), first.Month(), first.Day(), int(m.End)/60, int(m.End)%60, 0, 0, loc)

	uid := fmt.Sprintf("%d-%d@plannable", section.ID, idx)
	event := cal.AddEvent(uid)
	event.SetCreatedTime(stampedAt)
	event.SetDtStampTime(stampedAt)
	event.SetModifiedAt(stampedAt)
	event.SetStartAt(start)
	event.SetEndAt(end)
	event.SetSummary(fmt.Sprintf("%s%s %s", section.Department, section.Number, section.Type))
	event.SetLocation(section.SectionLabel)
	if len(section.Instructor) > 0 {
		event.SetDescription("Instructor: " + joinNames(section.Instructor))
	}
	event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", byDay, termEnd.UTC().Format("20060102T150405Z")))
	return nil
}

// weekdayTokens returns the set bits of days as both time.Weekday values
// (in canonical order, for finding the first occurrence) and a comma-joined
// RRULE BYDAY string.
func weekdayTokens(days meeting.Weekday) ([]time.Weekday, string) {
	var weekdays []time.Weekday
	byDay := ""
	for _, dc := range byDayCodes {
		if days.Has(dc.day) {
			weekdays = append(weekdays, timeWeekday[dc.day])
			if byDay != "" {
				byDay += ","
			}
			byDay += dc.code
		}
	}
	return weekdays, byDay
}

// firstOccurrence returns the first date on or after from that falls on want.
func firstOccurrence(from time.Time, want time.Weekday) time.Time {
	offset := (int(want) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, offset)
}

// GoogleCalendarLink builds a "calendar.google.com/render" template URL that
// prefills a single recurring event for meeting m of section, covering
// [termStart, termEnd].
func GoogleCalendarLink(section catalog.Section, m meeting.MeetingTime, termStart, termEnd time.Time, loc *time.Location) (string, error) {
	if m.TBA {
		return "", fmt.Errorf("section %d meeting has no fixed time to link", section.ID)
	}
	if loc == nil {
		loc = time.UTC
	}
	termStart = termStart.In(loc)

	days, byDay := weekdayTokens(m.Days)
	if len(days) == 0 {
		return "", fmt.Errorf("section %d meeting has no weekdays set", section.ID)
	}

	first := firstOccurrence(termStart, days[0])
	start := time.Date(first.Year(), first.Month(), first.Day(), int(m.Start)/60, int(m.Start)%60, 0, 0, loc)
	end := time.Date(first.Year(), first.Month(), first.Day(), int(m.End)/60, int(m.End)%60, 0, 0, loc)
	recur := fmt.Sprintf("RRULE:FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", byDay, termEnd.UTC().Format("20060102T150405Z"))

	details := fmt.Sprintf("Section #%d", section.ID)
	if len(section.Instructor) > 0 {
		details += "\nInstructor: " + joinNames(section.Instructor)
	}

	params := utils.EncodeParams(map[string][]string{
		"action":   {"TEMPLATE"},
		"text":     {fmt.Sprintf("%s%s %s", section.Department, section.Number, section.Type)},
		"dates":    {fmt.Sprintf("%s/%s", start.UTC().Format("20060102T150405Z"), end.UTC().Format("20060102T150405Z"))},
		"details":  {details},
		"location": {section.SectionLabel},
		"ctz":      {loc.String()},
		"recur":    {recur},
	})
	return "https://calendar.google.com/calendar/render?" + params, nil
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
