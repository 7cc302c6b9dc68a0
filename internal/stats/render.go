package stats

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/bikeshare/internal/model"
)

const (
	sectionDividerLen = 40
	blockDividerLen   = 60
	fallbackWidth     = 80

	userTypePrecision = 4
	genderPrecision   = 2
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// Renderer writes display-ready summaries to a writer.
type Renderer struct {
	out   io.Writer
	width int
}

// NewRenderer builds a renderer. A non-positive width triggers terminal
// width detection with an 80-column fallback.
func NewRenderer(out io.Writer, width int) *Renderer {
	if width <= 0 {
		width = detectWidth()
	}
	return &Renderer{out: out, width: width}
}

func detectWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// RenderAll runs the four statistics sections in fixed order, timing each
// one unless timingOff is set.
func (r *Renderer) RenderAll(data model.Filtered, timingOff bool) {
	fmt.Fprintln(r.out, "\n"+strings.Repeat("=", blockDividerLen))
	r.timed(timingOff, func() { r.RenderTime(TimeStats(data)) })
	r.sectionDivider()
	r.timed(timingOff, func() { r.RenderStations(StationStats(data)) })
	r.sectionDivider()
	r.timed(timingOff, func() { r.RenderDurations(DurationStats(data)) })
	r.sectionDivider()
	r.timed(timingOff, func() { r.RenderUsers(UserStats(data)) })
	fmt.Fprintln(r.out, strings.Repeat("=", blockDividerLen))
}

func (r *Renderer) timed(timingOff bool, render func()) {
	start := time.Now()
	render()
	if !timingOff {
		fmt.Fprintf(r.out, "This took %f seconds.\n", time.Since(start).Seconds())
	}
}

func (r *Renderer) sectionDivider() {
	fmt.Fprintln(r.out, strings.Repeat("-", sectionDividerLen))
}

func (r *Renderer) section(title string) {
	fmt.Fprintf(r.out, "\n%s\n\n", sectionStyle.Render(title))
}

// RenderTime displays the most frequent times of travel.
func (r *Renderer) RenderTime(report TimeReport) {
	r.section("Calculating The Most Frequent Times of Travel...")
	if report.Months != nil {
		fmt.Fprintf(r.out, "The most common month(s): %s\n", strings.Join(report.Months, ", "))
	}
	if report.Days != nil {
		fmt.Fprintf(r.out, "The most common day(s):   %s\n", strings.Join(report.Days, ", "))
	}
	fmt.Fprintf(r.out, "The most common hour(s):  %s %s\n",
		joinInts(report.Hours), noteStyle.Render("(hour(s) in 24h format)"))
	fmt.Fprintln(r.out)
}

// RenderStations displays the most popular stations and paths, one value
// per row since station names run long.
func (r *Renderer) RenderStations(report StationReport) {
	r.section("Calculating The Most Popular Stations and Trip...")
	r.listRows("The most common start station(s):", report.StartStations)
	r.listRows("The most common end station(s):", report.EndStations)
	r.listRows("The most common start => end combination(s):", report.Paths)
}

func (r *Renderer) listRows(description string, values []string) {
	fmt.Fprintln(r.out, description)
	for _, value := range values {
		fmt.Fprintf(r.out, "\t%s\n", value)
	}
	fmt.Fprintln(r.out)
}

// RenderDurations displays the duration summary with human-readable
// decompositions.
func (r *Renderer) RenderDurations(report DurationReport) {
	r.section("Calculating Trip Duration...")
	r.durationLine("Total duration of all trips:", report.Total)
	r.durationLine("Shortest trip duration:", report.Min)
	r.durationLine("Mean trip duration:", report.Mean)
	r.durationLine("Half of the trips took less than:", report.Median)
	r.durationLine("90% of the trips took less than:", report.P90)
	r.durationLine("Longest trip duration:", report.Max)
}

func (r *Renderer) durationLine(description string, seconds float64) {
	fmt.Fprintf(r.out, "%s\n\t%s\n", description, Decompose(seconds).Format())
}

// RenderUsers displays user type, gender, and birth year summaries, with
// explicit notes for absent optional columns.
func (r *Renderer) RenderUsers(report UserReport) {
	r.section("Calculating User Stats...")
	r.countsAndShares("Subscriber Type", report.UserTypes, userTypePrecision)

	if report.HasGender {
		r.countsAndShares("Gender", report.Genders, genderPrecision)
	} else {
		fmt.Fprintln(r.out, "No data about gender for this city.")
	}

	if report.HasBirthYear {
		fmt.Fprintf(r.out, "Earliest year of birth:  %d\n", report.EarliestYear)
		fmt.Fprintf(r.out, "Latest year of birth:    %d\n", report.LatestYear)
		years := make([]string, 0, len(report.CommonYears))
		for _, year := range report.CommonYears {
			years = append(years, strconv.Itoa(year))
		}
		fmt.Fprintf(r.out, "The most common year(s): %s\n", strings.Join(years, ", "))
	} else {
		fmt.Fprintln(r.out, "No data about birth year for this city.")
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) countsAndShares(title string, categories []CategoryCount, precision int) {
	total := 0
	for _, category := range categories {
		total += category.Count
	}

	countRows := make([][]string, 0, len(categories))
	shareRows := make([][]string, 0, len(categories))
	for _, category := range categories {
		countRows = append(countRows, []string{category.Name, strconv.Itoa(category.Count)})
		share := 0.0
		if total > 0 {
			share = 100 * float64(category.Count) / float64(total)
		}
		shareRows = append(shareRows, []string{category.Name, fmt.Sprintf("%.*f%%", precision, share)})
	}

	rightAlign := map[int]bool{1: true}
	for _, line := range formatTable([]string{title, "Count"}, countRows, rightAlign) {
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out)
	for _, line := range formatTable([]string{title, "Share(%)"}, shareRows, rightAlign) {
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out)
}

// RenderTrips displays a page of raw rows as an aligned table, truncated
// to the renderer width.
func (r *Renderer) RenderTrips(trips []model.Trip, cols model.Columns) {
	headers := []string{"Start Time", "Start Station", "End Station", "Trip Duration"}
	if cols.HasUserType {
		headers = append(headers, "User Type")
	}
	if cols.HasGender {
		headers = append(headers, "Gender")
	}
	if cols.HasBirthYear {
		headers = append(headers, "Birth Year")
	}

	rows := make([][]string, 0, len(trips))
	for _, trip := range trips {
		row := []string{
			trip.StartTime.Format("2006-01-02 15:04:05"),
			trip.StartStation,
			trip.EndStation,
			strconv.FormatFloat(trip.DurationSec, 'f', -1, 64),
		}
		if cols.HasUserType {
			row = append(row, trip.UserType)
		}
		if cols.HasGender {
			row = append(row, trip.Gender)
		}
		if cols.HasBirthYear {
			if trip.BirthYearSet {
				row = append(row, strconv.Itoa(trip.BirthYear))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	rightAlign := map[int]bool{3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		fmt.Fprintln(r.out, runewidth.Truncate(line, r.width, "..."))
	}
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, strconv.Itoa(value))
	}
	return strings.Join(parts, ", ")
}
