// Package model defines shared data structures.
package model

import "time"

// FilterAll disables filtering for a month or day selection.
const FilterAll = "All"

// Config defines explorer settings after merging flags and config file.
type Config struct {
	DataDir   string
	PageSize  int
	TimingOff bool
	AllData   bool
	NoCache   bool
	Debug     bool
}

// Trip is a single trip record with its derived columns.
type Trip struct {
	StartTime    time.Time
	StartStation string
	EndStation   string
	DurationSec  float64

	UserType     string
	Gender       string
	BirthYear    int
	BirthYearSet bool

	// Derived from StartTime and the station pair before any filtering.
	MonthName string
	DayName   string
	Hour      int
	Path      string
}

// Columns records which optional columns a dataset carries. Absence is a
// property of the whole file, not of individual rows.
type Columns struct {
	HasUserType  bool
	HasGender    bool
	HasBirthYear bool
}

// Filtered is a dataset restricted to a month/day selection. Month and Day
// echo the filter values so the stats engine knows what was pinned.
type Filtered struct {
	Trips   []Trip
	Columns Columns
	Month   string
	Day     string
}
