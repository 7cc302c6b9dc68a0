package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/bikeshare/internal/model"
)

const startTimeLayout = "2006-01-02 15:04:05"

// Column headers expected in the trip files. The files are exports with a
// leading unnamed index column, so columns are located by name.
const (
	colStartTime    = "Start Time"
	colStartStation = "Start Station"
	colEndStation   = "End Station"
	colDuration     = "Trip Duration"
	colUserType     = "User Type"
	colGender       = "Gender"
	colBirthYear    = "Birth Year"
)

// Cache persists parsed trips between runs, keyed by the source file
// fingerprint (size and modification time).
type Cache interface {
	Get(ctx context.Context, path string, size int64, modTime time.Time) ([]model.Trip, model.Columns, bool, error)
	Put(ctx context.Context, path string, size int64, modTime time.Time, trips []model.Trip, cols model.Columns) error
}

// Loader reads trip files, derives the computed columns, and applies
// month/day filters.
type Loader struct {
	calendar model.Calendar
	cache    Cache
}

// NewLoader builds a loader with the given calendar vocabulary. A nil
// cache disables caching.
func NewLoader(calendar model.Calendar, cache Cache) *Loader {
	return &Loader{calendar: calendar, cache: cache}
}

// Load reads the dataset at path and restricts it to the given month and
// day names (model.FilterAll disables each filter). Derived columns are
// computed for every row before filtering. The caller is expected to pass
// only validated month and day names.
func (l *Loader) Load(ctx context.Context, path, month, day string) (model.Filtered, error) {
	trips, cols, err := l.readTrips(ctx, path)
	if err != nil {
		return model.Filtered{}, err
	}
	l.derive(trips)

	filtered := make([]model.Trip, 0, len(trips))
	for _, trip := range trips {
		if month != model.FilterAll && trip.MonthName != month {
			continue
		}
		if day != model.FilterAll && trip.DayName != day {
			continue
		}
		filtered = append(filtered, trip)
	}
	return model.Filtered{Trips: filtered, Columns: cols, Month: month, Day: day}, nil
}

func (l *Loader) readTrips(ctx context.Context, path string) ([]model.Trip, model.Columns, error) {
	if l.cache == nil {
		return parseCSV(path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, model.Columns{}, fmt.Errorf("failed to stat dataset: %w", err)
	}
	trips, cols, ok, err := l.cache.Get(ctx, path, info.Size(), info.ModTime())
	if err != nil {
		return nil, model.Columns{}, fmt.Errorf("failed to read trip cache: %w", err)
	}
	if ok {
		return trips, cols, nil
	}
	trips, cols, err = parseCSV(path)
	if err != nil {
		return nil, model.Columns{}, err
	}
	if err := l.cache.Put(ctx, path, info.Size(), info.ModTime(), trips, cols); err != nil {
		return nil, model.Columns{}, fmt.Errorf("failed to update trip cache: %w", err)
	}
	return trips, cols, nil
}

func (l *Loader) derive(trips []model.Trip) {
	for i := range trips {
		trip := &trips[i]
		trip.MonthName = l.calendar.MonthName(trip.StartTime.Month())
		trip.DayName = l.calendar.WeekdayName(trip.StartTime.Weekday())
		trip.Hour = trip.StartTime.Hour()
		trip.Path = trip.StartStation + " => " + trip.EndStation
	}
}

type columnIndex struct {
	startTime    int
	startStation int
	endStation   int
	duration     int
	userType     int
	gender       int
	birthYear    int
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{
		startTime:    -1,
		startStation: -1,
		endStation:   -1,
		duration:     -1,
		userType:     -1,
		gender:       -1,
		birthYear:    -1,
	}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case colStartTime:
			idx.startTime = i
		case colStartStation:
			idx.startStation = i
		case colEndStation:
			idx.endStation = i
		case colDuration:
			idx.duration = i
		case colUserType:
			idx.userType = i
		case colGender:
			idx.gender = i
		case colBirthYear:
			idx.birthYear = i
		}
	}
	for _, required := range []struct {
		name string
		pos  int
	}{
		{colStartTime, idx.startTime},
		{colStartStation, idx.startStation},
		{colEndStation, idx.endStation},
		{colDuration, idx.duration},
	} {
		if required.pos < 0 {
			return idx, fmt.Errorf("missing required column %q", required.name)
		}
	}
	return idx, nil
}

func parseCSV(path string) ([]model.Trip, model.Columns, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, model.Columns{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, model.Columns{}, fmt.Errorf("failed to read dataset header: %w", err)
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, model.Columns{}, fmt.Errorf("%s: %w", path, err)
	}
	cols := model.Columns{
		HasUserType:  idx.userType >= 0,
		HasGender:    idx.gender >= 0,
		HasBirthYear: idx.birthYear >= 0,
	}

	var trips []model.Trip
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, model.Columns{}, fmt.Errorf("failed to read dataset row %d: %w", row, err)
		}
		trip, err := parseTrip(record, idx)
		if err != nil {
			return nil, model.Columns{}, fmt.Errorf("dataset row %d: %w", row, err)
		}
		trips = append(trips, trip)
	}
	return trips, cols, nil
}

func parseTrip(record []string, idx columnIndex) (model.Trip, error) {
	startTime, err := time.Parse(startTimeLayout, record[idx.startTime])
	if err != nil {
		return model.Trip{}, fmt.Errorf("invalid start time %q: %w", record[idx.startTime], err)
	}
	duration, err := strconv.ParseFloat(record[idx.duration], 64)
	if err != nil {
		return model.Trip{}, fmt.Errorf("invalid trip duration %q: %w", record[idx.duration], err)
	}
	if duration < 0 {
		return model.Trip{}, fmt.Errorf("negative trip duration %q", record[idx.duration])
	}
	trip := model.Trip{
		StartTime:    startTime,
		StartStation: record[idx.startStation],
		EndStation:   record[idx.endStation],
		DurationSec:  duration,
	}
	if idx.userType >= 0 {
		trip.UserType = record[idx.userType]
	}
	if idx.gender >= 0 {
		trip.Gender = record[idx.gender]
	}
	if idx.birthYear >= 0 {
		raw := strings.TrimSpace(record[idx.birthYear])
		if raw != "" {
			// Exports carry birth years as floats ("1992.0").
			year, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return model.Trip{}, fmt.Errorf("invalid birth year %q: %w", raw, err)
			}
			trip.BirthYear = int(year)
			trip.BirthYearSet = true
		}
	}
	return trip, nil
}
