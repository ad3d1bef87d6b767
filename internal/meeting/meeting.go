// Package meeting parses and models a weekly meeting-time pattern.
package meeting

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is a bitmask set of {Mo, Tu, We, Th, Fr, Sa, Su}.
type Weekday uint8

const (
	Monday Weekday = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayCodes = []struct {
	code string
	day  Weekday
}{
	{"Mo", Monday},
	{"Tu", Tuesday},
	{"We", Wednesday},
	{"Th", Thursday},
	{"Fr", Friday},
	{"Sa", Saturday},
	{"Su", Sunday},
}

// Has reports whether w includes day.
func (w Weekday) Has(day Weekday) bool {
	return w&day != 0
}

// String renders w as a concatenation of two-letter day codes in canonical order.
func (w Weekday) String() string {
	var b strings.Builder
	for _, dc := range dayCodes {
		if w.Has(dc.day) {
			b.WriteString(dc.code)
		}
	}
	return b.String()
}

// MinuteOfDay is a clock time expressed as minutes since midnight, in [0, 1440].
type MinuteOfDay int

// MeetingTime is either a Scheduled weekday/time-range pattern or TBA.
type MeetingTime struct {
	TBA   bool
	Days  Weekday
	Start MinuteOfDay
	End   MinuteOfDay
}

// MalformedMeetingError reports a meeting-time string that does not match the
// accepted grammar.
type MalformedMeetingError struct {
	Text   string
	Reason string
}

func (e *MalformedMeetingError) Error() string {
	return fmt.Sprintf("malformed meeting %q: %s", e.Text, e.Reason)
}

// Parse translates a meeting-time string into a MeetingTime.
//
// Accepted forms are the literal "TBA", or "<DAYS> <START>-<END>" where DAYS
// is one or more two-letter weekday codes and START/END are clock times of
// the form "H:MM" or "HH:MM" followed by "AM" or "PM". Whitespace may
// appear around the dash.
func Parse(text string) (MeetingTime, error) {
	if text == "TBA" {
		return MeetingTime{TBA: true}, nil
	}

	dayText, timeText, ok := strings.Cut(text, " ")
	if !ok {
		return MeetingTime{}, &MalformedMeetingError{text, "expected \"<days> <start>-<end>\""}
	}

	days, err := parseDays(dayText)
	if err != nil {
		return MeetingTime{}, &MalformedMeetingError{text, err.Error()}
	}

	startText, endText, ok := strings.Cut(timeText, "-")
	if !ok {
		return MeetingTime{}, &MalformedMeetingError{text, "missing '-' between start and end time"}
	}
	start, err := parseClock(strings.TrimSpace(startText))
	if err != nil {
		return MeetingTime{}, &MalformedMeetingError{text, err.Error()}
	}
	end, err := parseClock(strings.TrimSpace(endText))
	if err != nil {
		return MeetingTime{}, &MalformedMeetingError{text, err.Error()}
	}
	if start > end {
		return MeetingTime{}, &MalformedMeetingError{text, "start is after end"}
	}

	return MeetingTime{Days: days, Start: start, End: end}, nil
}

func parseDays(text string) (Weekday, error) {
	if len(text) == 0 || len(text)%2 != 0 {
		return 0, fmt.Errorf("day token %q has odd length", text)
	}
	var days Weekday
	for i := 0; i < len(text); i += 2 {
		code := text[i : i+2]
		day, ok := dayByCode(code)
		if !ok {
			return 0, fmt.Errorf("unrecognized day code %q", code)
		}
		days |= day
	}
	return days, nil
}

func dayByCode(code string) (Weekday, bool) {
	for _, dc := range dayCodes {
		if dc.code == code {
			return dc.day, true
		}
	}
	return 0, false
}

// parseClock parses "H:MMxM" or "HH:MMxM" into minutes since midnight.
func parseClock(text string) (MinuteOfDay, error) {
	if len(text) < 2 {
		return 0, fmt.Errorf("time %q too short", text)
	}
	meridiem := strings.ToUpper(text[len(text)-2:])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, fmt.Errorf("time %q missing AM/PM suffix", text)
	}
	clock := text[:len(text)-2]

	hourText, minuteText, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("time %q missing ':'", text)
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 0 || hour > 12 {
		return 0, fmt.Errorf("time %q has invalid hour", text)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q has invalid minute", text)
	}

	// Hour "00" is accepted as an alias of the 12 o'clock hour; roster
	// exports write midnight as "00:00AM".
	switch {
	case (hour == 12 || hour == 0) && meridiem == "AM":
		return MinuteOfDay(minute), nil
	case (hour == 12 || hour == 0) && meridiem == "PM":
		return MinuteOfDay(12*60 + minute), nil
	case meridiem == "AM":
		return MinuteOfDay(hour*60 + minute), nil
	default: // PM, hour in [1,11]
		return MinuteOfDay((hour+12)*60 + minute), nil
	}
}

// String renders m back into its canonical textual form.
func (m MeetingTime) String() string {
	if m.TBA {
		return "TBA"
	}
	return fmt.Sprintf("%s %s-%s", m.Days, formatClock(m.Start), formatClock(m.End))
}

func formatClock(minutes MinuteOfDay) string {
	m := int(minutes)
	hour24 := m / 60
	minute := m % 60
	meridiem := "AM"
	hour := hour24
	switch {
	case hour24 == 0:
		hour = 12
	case hour24 == 12:
		meridiem = "PM"
	case hour24 > 12:
		hour = hour24 - 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d%s", hour, minute, meridiem)
}
