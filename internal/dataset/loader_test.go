package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/bikeshare/internal/model"
)

const fullCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
0,2017-01-01 09:07:57,2017-01-01 09:20:53,776.0,Canal St,Clark St,Subscriber,Male,1992.0
1,2017-01-02 09:07:57,2017-01-02 09:12:57,300.0,Canal St,State St,Customer,,
2,2017-02-03 18:30:00,2017-02-03 18:32:00,120.5,Clark St,Canal St,Subscriber,Female,1985.0
`

const bareCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station
0,2017-01-01 09:07:57,2017-01-01 09:20:53,776.0,Canal St,Clark St
`

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadDerivesColumns(t *testing.T) {
	path := writeCSV(t, "chicago.csv", fullCSV)
	loader := NewLoader(model.DefaultCalendar(), nil)

	data, err := loader.Load(context.Background(), path, model.FilterAll, model.FilterAll)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Trips) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(data.Trips))
	}

	first := data.Trips[0]
	if first.MonthName != "January" {
		t.Fatalf("expected January, got %q", first.MonthName)
	}
	// 2017-01-01 was a Sunday; weekday naming is Sunday-indexed.
	if first.DayName != "Sunday" {
		t.Fatalf("expected Sunday, got %q", first.DayName)
	}
	if first.Hour != 9 {
		t.Fatalf("expected hour 9, got %d", first.Hour)
	}
	if first.Path != "Canal St => Clark St" {
		t.Fatalf("unexpected path %q", first.Path)
	}

	if !data.Columns.HasUserType || !data.Columns.HasGender || !data.Columns.HasBirthYear {
		t.Fatalf("expected all optional columns present, got %+v", data.Columns)
	}
	if !data.Trips[0].BirthYearSet || data.Trips[0].BirthYear != 1992 {
		t.Fatalf("expected birth year 1992, got %+v", data.Trips[0])
	}
	if data.Trips[1].BirthYearSet {
		t.Fatalf("expected missing birth year on second row")
	}
}

func TestLoadFiltersByMonthAndDay(t *testing.T) {
	path := writeCSV(t, "chicago.csv", fullCSV)
	loader := NewLoader(model.DefaultCalendar(), nil)
	ctx := context.Background()

	byMonth, err := loader.Load(ctx, path, "February", model.FilterAll)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(byMonth.Trips) != 1 || byMonth.Trips[0].MonthName != "February" {
		t.Fatalf("expected single February trip, got %+v", byMonth.Trips)
	}

	byDay, err := loader.Load(ctx, path, model.FilterAll, "Monday")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(byDay.Trips) != 1 || byDay.Trips[0].DayName != "Monday" {
		t.Fatalf("expected single Monday trip, got %+v", byDay.Trips)
	}

	both, err := loader.Load(ctx, path, "February", "Monday")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(both.Trips) != 0 {
		t.Fatalf("expected no trips for February Mondays, got %d", len(both.Trips))
	}
}

func TestLoadWithoutOptionalColumns(t *testing.T) {
	path := writeCSV(t, "washington.csv", bareCSV)
	loader := NewLoader(model.DefaultCalendar(), nil)

	data, err := loader.Load(context.Background(), path, model.FilterAll, model.FilterAll)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if data.Columns.HasUserType || data.Columns.HasGender || data.Columns.HasBirthYear {
		t.Fatalf("expected no optional columns, got %+v", data.Columns)
	}
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, "broken.csv", ",Start Time,End Station,Trip Duration\n")
	loader := NewLoader(model.DefaultCalendar(), nil)

	if _, err := loader.Load(context.Background(), path, model.FilterAll, model.FilterAll); err == nil {
		t.Fatalf("expected error for missing required column")
	}
}

func TestRegistryAvailable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(fullCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	available := DefaultRegistry().Available(dir)
	if len(available) != 1 || available[0].Name != "Chicago" {
		t.Fatalf("expected only Chicago available, got %+v", available)
	}

	names := available.Names()
	if len(names) != 1 || names[0] != "Chicago" {
		t.Fatalf("unexpected names %v", names)
	}

	if _, ok := available.Path(dir, "Washington"); ok {
		t.Fatalf("expected Washington to be unknown")
	}
	path, ok := available.Path(dir, "Chicago")
	if !ok || path != filepath.Join(dir, "chicago.csv") {
		t.Fatalf("unexpected path %q ok=%v", path, ok)
	}
}
