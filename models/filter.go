package models

import (
	"errors"
	"fmt"
)

// All is the selector value that disables a filter dimension.
const All = "all"

var ErrUnknownFilterValue = errors.New("unknown filter value")

// FilterOptions lists the values a selector may take besides All.
type FilterOptions struct {
	Regions  []string `json:"regions"`
	Sectors  []string `json:"sectors"`
	EndYears []string `json:"end_years"`
}

// FilterSelection is the set of include-only constraints applied before
// aggregation. The zero value selects everything.
type FilterSelection struct {
	Region  string `json:"region"`
	Sector  string `json:"sector"`
	EndYear string `json:"end_year"`
}

func AllFilters() FilterSelection {
	return FilterSelection{Region: All, Sector: All, EndYear: All}
}

// IsAll reports whether a selector value disables its dimension.
func IsAll(v string) bool { return v == "" || v == All }

func (f FilterSelection) IsEmpty() bool {
	return IsAll(f.Region) && IsAll(f.Sector) && IsAll(f.EndYear)
}

// Normalized maps every disabled selector to All so equal selections compare
// equal.
func (f FilterSelection) Normalized() FilterSelection {
	if IsAll(f.Region) {
		f.Region = All
	}
	if IsAll(f.Sector) {
		f.Sector = All
	}
	if IsAll(f.EndYear) {
		f.EndYear = All
	}
	return f
}

func (f *FilterSelection) SetRegion(v string, opts FilterOptions) error {
	return setSelector(&f.Region, "region", v, opts.Regions)
}

func (f *FilterSelection) SetSector(v string, opts FilterOptions) error {
	return setSelector(&f.Sector, "sector", v, opts.Sectors)
}

func (f *FilterSelection) SetEndYear(v string, opts FilterOptions) error {
	return setSelector(&f.EndYear, "end_year", v, opts.EndYears)
}

func setSelector(dst *string, dim, v string, allowed []string) error {
	if IsAll(v) {
		*dst = All
		return nil
	}
	for _, a := range allowed {
		if a == v {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("%s %q: %w", dim, v, ErrUnknownFilterValue)
}
