package ingest

import (
	"strings"
	"testing"

	"github.com/awesome-schedule/plannable/internal/catalog"
)

const sampleCSV = `id,department,number,section,type,instructor,meetings,status
1,CS,2110,A,Lecture,"Jane Doe",MoWeFr 10:00AM-10:50AM,Open
2,CS,2110,B,Laboratory,"John Smith",TuTh 2:00PM-3:15PM,Open
3,CS,2110,C,Laboratory,,TBA,Closed
`

func TestLoadCSV(t *testing.T) {
	cat, err := LoadCSV(strings.NewReader(sampleCSV), Options{})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	lectures, ok := cat.Sections(catalog.NewGroupKey("CS", "2110", catalog.Lecture))
	if !ok || len(lectures) != 1 {
		t.Fatalf("expected 1 lecture section, got %d (ok=%v)", len(lectures), ok)
	}
	if lectures[0].Instructor[0] != "Jane Doe" {
		t.Fatalf("expected instructor %q, got %q", "Jane Doe", lectures[0].Instructor[0])
	}

	labs, ok := cat.Sections(catalog.NewGroupKey("CS", "2110", catalog.Laboratory))
	if !ok || len(labs) != 2 {
		t.Fatalf("expected 2 laboratory sections, got %d (ok=%v)", len(labs), ok)
	}
	if !labs[1].Meetings[0].TBA {
		t.Fatalf("expected second lab section to be TBA")
	}
}

func TestLoadCSVDropsMalformedByDefault(t *testing.T) {
	csvText := "id,department,number,section,type,instructor,meetings,status\n" +
		"1,CS,2110,A,Lecture,,not a valid meeting,Open\n" +
		"2,CS,2110,B,Lecture,,MoWeFr 10:00AM-10:50AM,Open\n"

	cat, err := LoadCSV(strings.NewReader(csvText), Options{})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	lectures, ok := cat.Sections(catalog.NewGroupKey("CS", "2110", catalog.Lecture))
	if !ok || len(lectures) != 1 {
		t.Fatalf("expected the malformed row to be dropped, got %d sections (ok=%v)", len(lectures), ok)
	}
	if lectures[0].ID != 2 {
		t.Fatalf("expected surviving section id 2, got %d", lectures[0].ID)
	}
}

func TestLoadCSVStrictAbortsOnMalformed(t *testing.T) {
	csvText := "id,department,number,section,type,instructor,meetings,status\n" +
		"1,CS,2110,A,Lecture,,not a valid meeting,Open\n"

	_, err := LoadCSV(strings.NewReader(csvText), Options{Strict: true})
	if err == nil {
		t.Fatalf("expected strict mode to return an error")
	}
}
