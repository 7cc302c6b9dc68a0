// Package stats computes and renders summary statistics over filtered
// trip datasets.
package stats

import (
	"sort"

	"github.com/verte-zerg/bikeshare/internal/model"
)

// TimeReport summarizes the most frequent times of travel. Months and
// Days are nil when the corresponding filter pinned a single value.
type TimeReport struct {
	Months []string
	Days   []string
	Hours  []int
}

// StationReport summarizes the most popular stations and paths.
type StationReport struct {
	StartStations []string
	EndStations   []string
	Paths         []string
}

// DurationReport summarizes trip durations in seconds.
type DurationReport struct {
	Count  int
	Total  float64
	Min    float64
	Mean   float64
	Median float64
	P90    float64
	Max    float64
}

// CategoryCount is one category with its row count, ordered for display.
type CategoryCount struct {
	Name  string
	Count int
}

// UserReport summarizes user demographics. The Has flags mirror column
// presence in the source dataset; absent columns yield no values.
type UserReport struct {
	UserTypes []CategoryCount

	HasGender bool
	Genders   []CategoryCount

	HasBirthYear bool
	EarliestYear int
	LatestYear   int
	CommonYears  []int
}

// TimeStats reports the modal month(s) and day(s) when they were not
// pinned by the filter, and always the modal hour(s).
func TimeStats(data model.Filtered) TimeReport {
	report := TimeReport{}
	if data.Month == model.FilterAll {
		months := make([]string, 0, len(data.Trips))
		for _, trip := range data.Trips {
			months = append(months, trip.MonthName)
		}
		report.Months = modal(months)
	}
	if data.Day == model.FilterAll {
		days := make([]string, 0, len(data.Trips))
		for _, trip := range data.Trips {
			days = append(days, trip.DayName)
		}
		report.Days = modal(days)
	}
	hours := make([]int, 0, len(data.Trips))
	for _, trip := range data.Trips {
		hours = append(hours, trip.Hour)
	}
	report.Hours = modal(hours)
	return report
}

// StationStats reports the modal start station(s), end station(s), and
// start => end path(s).
func StationStats(data model.Filtered) StationReport {
	starts := make([]string, 0, len(data.Trips))
	ends := make([]string, 0, len(data.Trips))
	paths := make([]string, 0, len(data.Trips))
	for _, trip := range data.Trips {
		starts = append(starts, trip.StartStation)
		ends = append(ends, trip.EndStation)
		paths = append(paths, trip.Path)
	}
	return StationReport{
		StartStations: modal(starts),
		EndStations:   modal(ends),
		Paths:         modal(paths),
	}
}

// DurationStats reports total, minimum, mean, median, 90th percentile,
// and maximum trip duration in seconds.
func DurationStats(data model.Filtered) DurationReport {
	report := DurationReport{Count: len(data.Trips)}
	if report.Count == 0 {
		return report
	}
	durations := make([]float64, 0, report.Count)
	for _, trip := range data.Trips {
		durations = append(durations, trip.DurationSec)
		report.Total += trip.DurationSec
	}
	sort.Float64s(durations)
	report.Min = durations[0]
	report.Max = durations[len(durations)-1]
	report.Mean = report.Total / float64(report.Count)
	report.Median = quantile(durations, 0.5)
	report.P90 = quantile(durations, 0.9)
	return report
}

// UserStats reports counts and shares of user types, gender counts when
// the column exists, and birth-year extremes and mode when that column
// exists. Rows with a missing value are dropped from the corresponding
// calculation, so shares are taken over non-missing rows only.
func UserStats(data model.Filtered) UserReport {
	report := UserReport{
		HasGender:    data.Columns.HasGender,
		HasBirthYear: data.Columns.HasBirthYear,
	}

	userTypes := make([]string, 0, len(data.Trips))
	for _, trip := range data.Trips {
		if trip.UserType == "" {
			continue
		}
		userTypes = append(userTypes, trip.UserType)
	}
	report.UserTypes = countCategories(userTypes)

	if report.HasGender {
		genders := make([]string, 0, len(data.Trips))
		for _, trip := range data.Trips {
			if trip.Gender == "" {
				continue
			}
			genders = append(genders, trip.Gender)
		}
		report.Genders = countCategories(genders)
	}

	if report.HasBirthYear {
		var years []int
		for _, trip := range data.Trips {
			if !trip.BirthYearSet {
				continue
			}
			years = append(years, trip.BirthYear)
		}
		if len(years) > 0 {
			report.EarliestYear = years[0]
			report.LatestYear = years[0]
			for _, year := range years[1:] {
				if year < report.EarliestYear {
					report.EarliestYear = year
				}
				if year > report.LatestYear {
					report.LatestYear = year
				}
			}
			report.CommonYears = modal(years)
		} else {
			report.HasBirthYear = false
		}
	}
	return report
}

// modal returns every value tied at the maximum frequency, ordered by
// first appearance.
func modal[T comparable](values []T) []T {
	counts := make(map[T]int, len(values))
	var order []T
	best := 0
	for _, value := range values {
		counts[value]++
		if counts[value] == 1 {
			order = append(order, value)
		}
		if counts[value] > best {
			best = counts[value]
		}
	}
	var out []T
	for _, value := range order {
		if counts[value] == best {
			out = append(out, value)
		}
	}
	return out
}

// countCategories counts occurrences and orders them by descending count,
// first appearance breaking ties.
func countCategories(values []string) []CategoryCount {
	counts := make(map[string]int, len(values))
	var order []string
	for _, value := range values {
		counts[value]++
		if counts[value] == 1 {
			order = append(order, value)
		}
	}
	out := make([]CategoryCount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// quantile interpolates linearly between the closest ranks of a sorted
// slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
