// Package session drives the interactive explore loop.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/bikeshare/internal/dataset"
	"github.com/verte-zerg/bikeshare/internal/model"
	"github.com/verte-zerg/bikeshare/internal/prompt"
	"github.com/verte-zerg/bikeshare/internal/stats"
)

const (
	quitRecognized = "You requested to quit. The program has ended."
	signOff        = "\nThanks for using this bikeshare data explorer!"
)

// Loader maps a validated (dataset path, month, day) selection to a
// filtered dataset.
type Loader interface {
	Load(ctx context.Context, path, month, day string) (model.Filtered, error)
}

// Controller owns the loop of filter selection, loading, display, and
// restart. The last loaded dataset is kept so an identical unfiltered
// selection does not reload it.
type Controller struct {
	cfg      model.Config
	registry dataset.Registry
	calendar model.Calendar
	loader   Loader
	input    prompt.InputSource
	selector *prompt.Selector
	renderer *stats.Renderer
	out      io.Writer
}

// New builds a session controller.
func New(cfg model.Config, registry dataset.Registry, calendar model.Calendar, loader Loader, input prompt.InputSource, renderer *stats.Renderer, out io.Writer) *Controller {
	return &Controller{
		cfg:      cfg,
		registry: registry,
		calendar: calendar,
		loader:   loader,
		input:    input,
		selector: prompt.NewSelector(input, out),
		renderer: renderer,
		out:      out,
	}
}

// Run executes selection rounds until the user quits. Cancelled input
// resolves to the Quit sentinel and ends the loop gracefully.
func (c *Controller) Run(ctx context.Context) error {
	c.printWelcome()

	available := c.registry.Available(c.cfg.DataDir)
	if len(available) == 0 {
		fmt.Fprintln(c.out, "No data files were found in the data directory. Please check!")
		fmt.Fprintln(c.out, signOff)
		return nil
	}

	previousCity := ""
	var current model.Filtered
	loaded := false

	for {
		city, month, day := c.getFilters(available)
		if city == prompt.Quit || month == prompt.Quit || day == prompt.Quit {
			fmt.Fprintln(c.out, quitRecognized)
			break
		}

		// Reuse the previous dataset only when nothing about the
		// selection can differ from the cached one.
		if !(loaded && city == previousCity && c.cfg.AllData) {
			path, ok := available.Path(c.cfg.DataDir, city)
			if !ok {
				return fmt.Errorf("unknown dataset %q", city)
			}
			fmt.Fprintf(c.out, "\nLoading data for city = %s, month = %s, day = %s...\n", city, month, day)
			data, err := c.loader.Load(ctx, path, month, day)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", city, err)
			}
			current = data
			loaded = true
		}

		if len(current.Trips) == 0 {
			fmt.Fprintln(c.out, "There was no data with this selection.")
		} else if done := c.display(current); done {
			break
		}

		answer := c.input.ReadLine("\nWould you like to restart? Enter y to restart, anything else to quit: ")
		if answer.Cancelled || !strings.EqualFold(strings.TrimSpace(answer.Text), "y") {
			break
		}
		previousCity = city
	}

	fmt.Fprintln(c.out, signOff)
	return nil
}

func (c *Controller) printWelcome() {
	fmt.Fprintln(c.out, "\nWelcome to the bikeshare explorer!")
	fmt.Fprintln(c.out, "\nLet's explore some US bikeshare data!")
	fmt.Fprintln(c.out, "\nTo select data, just type enough letters to make your selection unique.")
	fmt.Fprintln(c.out, "\tFor example: c for Chicago, th for Thursday, etc.")
	fmt.Fprintln(c.out, "\tTo view all the possible filter options, just hit Enter.")
	fmt.Fprintln(c.out, "To quit the program, enter q at the next prompt.")
	if c.cfg.TimingOff {
		fmt.Fprintln(c.out, "At your request, timings of statistics calculations have been switched off.")
	} else {
		fmt.Fprintln(c.out, "To switch off timings of statistics calculations use --timing-off.")
	}
	if c.cfg.AllData {
		fmt.Fprintln(c.out, "At your request, optional filtering has been switched off.")
	} else {
		fmt.Fprintln(c.out, "To always use all data (no month or day filters) use --all.")
	}
}

// getFilters resolves the city, month, and day selections. A Quit at any
// step forces Quit for the remaining values.
func (c *Controller) getFilters(available dataset.Registry) (city, month, day string) {
	names := available.Names()
	city = c.selector.UniqueSelection(
		fmt.Sprintf("\nWhich city (available are: %s)? ", strings.Join(names, ", ")),
		append(names, prompt.Quit))
	fmt.Fprintln(c.out, "You selected:", city)
	if city == prompt.Quit {
		return city, prompt.Quit, prompt.Quit
	}

	if c.cfg.AllData {
		return city, model.FilterAll, model.FilterAll
	}

	month = c.selector.UniqueSelection("\nWhich month (or \"all\")? ",
		append(c.calendar.MonthNames(), model.FilterAll, prompt.Quit))
	fmt.Fprintln(c.out, "You selected:", month)
	if month == prompt.Quit {
		return city, month, prompt.Quit
	}

	day = c.selector.UniqueSelection("\nWhich day of the week (or \"all\")? ",
		append(c.calendar.WeekdayNames(), model.FilterAll, prompt.Quit))
	fmt.Fprintln(c.out, "You selected:", day)
	return city, month, day
}

// display shows the raw or statistics view. It reports true when the
// user chose to quit the whole session.
func (c *Controller) display(data model.Filtered) bool {
	view := c.selector.UniqueSelection(
		"\nDo you want to view Raw Data or Statistics? ",
		[]string{"Raw Data", "Statistics", prompt.Quit})
	fmt.Fprintln(c.out, "You selected:", view)
	switch view {
	case prompt.Quit:
		fmt.Fprintln(c.out, quitRecognized)
		return true
	case "Statistics":
		c.renderer.RenderAll(data, c.cfg.TimingOff)
	default:
		c.showRaw(data)
	}
	return false
}

func (c *Controller) showRaw(data model.Filtered) {
	fmt.Fprintln(c.out, "\nTo change the number of rows per page, use --pagesize.")
	pageSize := c.cfg.PageSize
	if pageSize < 0 {
		pageSize = -pageSize
	}
	if pageSize == 0 {
		pageSize = 10
	}
	for start := 0; start < len(data.Trips); start += pageSize {
		end := start + pageSize
		if end > len(data.Trips) {
			end = len(data.Trips)
		}
		c.renderer.RenderTrips(data.Trips[start:end], data.Columns)
		if end >= len(data.Trips) {
			break
		}
		answer := c.input.ReadLine("\nEnter q to quit, anything else to continue...")
		if answer.Cancelled || strings.EqualFold(strings.TrimSpace(answer.Text), "q") {
			break
		}
	}
}
