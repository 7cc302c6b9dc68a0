package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/bikeshare/internal/model"
)

func TestRenderUsersAbsentColumns(t *testing.T) {
	var out bytes.Buffer
	renderer := NewRenderer(&out, 80)

	data := model.Filtered{
		Trips:   []model.Trip{{UserType: "Subscriber"}},
		Columns: model.Columns{HasUserType: true},
	}
	renderer.RenderUsers(UserStats(data))

	rendered := out.String()
	if !strings.Contains(rendered, "No data about gender for this city.") {
		t.Fatalf("expected gender absence note, got %q", rendered)
	}
	if !strings.Contains(rendered, "No data about birth year for this city.") {
		t.Fatalf("expected birth year absence note, got %q", rendered)
	}
}

func TestRenderUsersCountsAndShares(t *testing.T) {
	var out bytes.Buffer
	renderer := NewRenderer(&out, 80)

	data := model.Filtered{
		Trips: []model.Trip{
			{UserType: "Subscriber", Gender: "Male"},
			{UserType: "Subscriber", Gender: "Female"},
			{UserType: "Customer", Gender: "Female"},
			{UserType: "Subscriber", Gender: "Female"},
		},
		Columns: model.Columns{HasUserType: true, HasGender: true},
	}
	renderer.RenderUsers(UserStats(data))

	rendered := out.String()
	if !strings.Contains(rendered, "75.0000%") {
		t.Fatalf("expected user type share with 4 decimals, got %q", rendered)
	}
	if !strings.Contains(rendered, "75.00%") {
		t.Fatalf("expected gender share with 2 decimals, got %q", rendered)
	}
	if !strings.Contains(rendered, "Count") || !strings.Contains(rendered, "Share(%)") {
		t.Fatalf("expected count and share tables, got %q", rendered)
	}
}

func TestRenderUsersSharesExcludeMissing(t *testing.T) {
	var out bytes.Buffer
	renderer := NewRenderer(&out, 80)

	data := model.Filtered{
		Trips: []model.Trip{
			{UserType: "Subscriber", Gender: "Male"},
			{UserType: "Subscriber", Gender: "Female"},
			{UserType: "Subscriber"},
		},
		Columns: model.Columns{HasUserType: true, HasGender: true},
	}
	renderer.RenderUsers(UserStats(data))

	rendered := out.String()
	if !strings.Contains(rendered, "50.00%") {
		t.Fatalf("expected gender shares over non-missing rows, got %q", rendered)
	}
	if strings.Contains(rendered, "33.33%") {
		t.Fatalf("missing gender row leaked into the share denominator: %q", rendered)
	}
}

func TestRenderTimeOmitsPinnedFilters(t *testing.T) {
	var out bytes.Buffer
	renderer := NewRenderer(&out, 80)

	report := TimeReport{Hours: []int{17}}
	renderer.RenderTime(report)

	rendered := out.String()
	if strings.Contains(rendered, "most common month") {
		t.Fatalf("month line should be omitted when pinned, got %q", rendered)
	}
	if !strings.Contains(rendered, "17") {
		t.Fatalf("expected modal hour, got %q", rendered)
	}
}

func TestRenderTripsTruncatesToWidth(t *testing.T) {
	var out bytes.Buffer
	renderer := NewRenderer(&out, 40)

	trips := []model.Trip{{
		StartStation: strings.Repeat("Long Station Name ", 5),
		EndStation:   "Clark St",
		DurationSec:  300,
	}}
	renderer.RenderTrips(trips, model.Columns{})

	for _, line := range strings.Split(strings.TrimRight(out.String(), "\n"), "\n") {
		if displayWidth(line) > 40 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
}

func TestFormatTableAlignment(t *testing.T) {
	lines := formatTable(
		[]string{"Gender", "Count"},
		[][]string{{"Female", "3"}, {"Male", "1"}},
		map[int]bool{1: true},
	)
	if len(lines) != 4 {
		t.Fatalf("expected header, separator, and two rows, got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[2], "3") || !strings.HasSuffix(lines[3], "1") {
		t.Fatalf("expected right-aligned counts, got %q and %q", lines[2], lines[3])
	}
	if !strings.HasPrefix(lines[1], "-") {
		t.Fatalf("expected dash separator, got %q", lines[1])
	}
}
