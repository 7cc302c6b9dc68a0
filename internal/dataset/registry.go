// Package dataset loads and filters trip-record CSV files.
package dataset

import (
	"os"
	"path/filepath"
)

// Entry maps a display name to its backing CSV file.
type Entry struct {
	Name string
	File string
}

// Registry is the ordered list of supported datasets. Order is preserved
// for display; names must not collide case-insensitively.
type Registry []Entry

// DefaultRegistry lists the supported city files. Only entries whose file
// is present in the data directory are offered to the user.
func DefaultRegistry() Registry {
	return Registry{
		{Name: "Chicago", File: "chicago.csv"},
		{Name: "New York City", File: "new_york_city.csv"},
		{Name: "Washington", File: "washington.csv"},
	}
}

// Available returns the entries whose file exists under dir, preserving
// registry order.
func (r Registry) Available(dir string) Registry {
	var found Registry
	for _, entry := range r {
		if _, err := os.Stat(filepath.Join(dir, entry.File)); err == nil {
			found = append(found, entry)
		}
	}
	return found
}

// Names returns the display names in registry order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for _, entry := range r {
		names = append(names, entry.Name)
	}
	return names
}

// Path returns the file path of the named dataset under dir and whether
// the name is known to the registry.
func (r Registry) Path(dir, name string) (string, bool) {
	for _, entry := range r {
		if entry.Name == name {
			return filepath.Join(dir, entry.File), true
		}
	}
	return "", false
}
