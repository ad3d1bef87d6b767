// Package ingest builds a catalog from a roster export. It sits outside the
// core: malformed rows are dropped with a warning by default rather than
// aborting the whole load, since the core's own MalformedMeeting error is a
// synchronous, single-call concern, not a batch-load one.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/meeting"
)

// header columns, matching the roster export's attribute map.
const (
	colID = iota
	colDepartment
	colNumber
	colSectionLabel
	colType
	colInstructor
	colMeetings
	colStatus
	columnCount
)

// Options configures LoadCSV.
type Options struct {
	// Strict aborts ingestion on the first row with a malformed meeting
	// string, instead of dropping that row with a logged warning.
	Strict bool

	// Logger receives a warning event per dropped row. If nil, dropped
	// rows are silent.
	Logger *zerolog.Logger
}

// LoadCSV reads a header row followed by one data row per section and
// builds a Catalog. Each row's meetings column holds one or more
// semicolon-separated meeting-time strings (or "TBA").
func LoadCSV(r io.Reader, opts Options) (*catalog.Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columnCount

	if _, err := reader.Read(); err != nil { // header
		return nil, errors.Wrap(err, "reading csv header")
	}

	var sections []catalog.Section
	rowNum := 1
	for {
		rowNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading csv row %d", rowNum)
		}

		section, err := parseRow(record)
		if err != nil {
			if opts.Strict {
				return nil, errors.Wrapf(err, "row %d", rowNum)
			}
			if opts.Logger != nil {
				opts.Logger.Warn().Int("row", rowNum).Err(err).Msg("dropping malformed section")
			}
			continue
		}
		sections = append(sections, section)
	}

	return catalog.Build(sections)
}

func parseRow(record []string) (catalog.Section, error) {
	id, err := strconv.Atoi(strings.TrimSpace(record[colID]))
	if err != nil {
		return catalog.Section{}, errors.Wrapf(err, "invalid id %q", record[colID])
	}

	meetings, err := parseMeetings(record[colMeetings])
	if err != nil {
		return catalog.Section{}, err
	}

	var instructors []string
	if raw := strings.TrimSpace(record[colInstructor]); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			instructors = append(instructors, strings.TrimSpace(name))
		}
	}

	return catalog.Section{
		ID:           id,
		Department:   strings.TrimSpace(record[colDepartment]),
		Number:       strings.TrimSpace(record[colNumber]),
		SectionLabel: strings.TrimSpace(record[colSectionLabel]),
		Type:         catalog.SectionType(strings.TrimSpace(record[colType])),
		Instructor:   instructors,
		Status:       catalog.Status(strings.TrimSpace(record[colStatus])),
		Meetings:     meetings,
	}, nil
}

func parseMeetings(field string) ([]meeting.MeetingTime, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}
	parts := strings.Split(field, ";")
	meetings := make([]meeting.MeetingTime, 0, len(parts))
	for _, part := range parts {
		m, err := meeting.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("meetings column: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}
