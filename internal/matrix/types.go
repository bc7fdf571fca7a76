// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package matrix

import (
	"slices"
	"sort"
)

// Reserved name prefixes of the matrix file.
const (
	DriverPrefix      = "driver."
	FeaturePrefix     = "operation."
	DriverNotesPrefix = "driver-notes."
)

// FeatureStatus is the maturity of a feature.
type FeatureStatus string

const (
	StatusMandatory FeatureStatus = "mandatory"
	StatusOptional  FeatureStatus = "optional"
	StatusChoice    FeatureStatus = "choice"
	StatusCondition FeatureStatus = "condition"
	StatusMature    FeatureStatus = "mature"
	StatusImmature  FeatureStatus = "immature"
)

// FeatureStatuses lists every accepted feature status.
var FeatureStatuses = []FeatureStatus{
	StatusMandatory, StatusOptional, StatusChoice,
	StatusCondition, StatusMature, StatusImmature,
}

// Valid reports whether s is one of FeatureStatuses.
func (s FeatureStatus) Valid() bool {
	return slices.Contains(FeatureStatuses, s)
}

// ImplementationStatus is how completely a driver supports a feature.
type ImplementationStatus string

const (
	ImplComplete ImplementationStatus = "complete"
	ImplPartial  ImplementationStatus = "partial"
	ImplMissing  ImplementationStatus = "missing"
	ImplUnknown  ImplementationStatus = "unknown"
)

// ImplementationStatuses lists every accepted implementation status.
var ImplementationStatuses = []ImplementationStatus{
	ImplComplete, ImplMissing, ImplPartial, ImplUnknown,
}

// Valid reports whether s is one of ImplementationStatuses.
func (s ImplementationStatus) Valid() bool {
	return slices.Contains(ImplementationStatuses, s)
}

// Driver is one pluggable backend.
type Driver struct {
	Key   string // section name, prefix included
	Title string
	Link  *string // documentation URL, nil when not set
}

// Implementation is one driver's support for one feature.
type Implementation struct {
	Status ImplementationStatus
	Notes  *string
}

// Resolved returns the implementation with the default status applied.
func (i Implementation) Resolved() Implementation {
	if i.Status == "" {
		i.Status = ImplMissing
	}
	return i
}

// Feature is one tracked capability.
type Feature struct {
	Key    string // section name, prefix included
	Title  string
	Status FeatureStatus
	Group  *string
	Notes  *string
	CLI    []string
	API    *string

	// Implementations is keyed by driver key.
	Implementations map[string]Implementation
}

// DisplayStatus returns "status" or "status(group)".
func (f *Feature) DisplayStatus() string {
	if f.Group == nil {
		return string(f.Status)
	}
	return string(f.Status) + "(" + *f.Group + ")"
}

// Declares reports whether f lists an implementation for driverKey.
func (f *Feature) Declares(driverKey string) bool {
	_, ok := f.Implementations[driverKey]
	return ok
}

// Matrix is every driver and feature of a matrix file.
type Matrix struct {
	Drivers  map[string]*Driver
	Features []*Feature

	driverOrder []string
}

// DriverKeys returns driver keys in declaration order.
func (m *Matrix) DriverKeys() []string {
	return append([]string(nil), m.driverOrder...)
}

// SortedDrivers returns all drivers sorted by title. Equal titles keep
// declaration order.
func (m *Matrix) SortedDrivers() []*Driver {
	drivers := make([]*Driver, 0, len(m.driverOrder))
	for _, key := range m.driverOrder {
		drivers = append(drivers, m.Drivers[key])
	}
	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Title < drivers[j].Title
	})
	return drivers
}

// ImplementedDrivers returns the drivers f declares, sorted by title.
func (m *Matrix) ImplementedDrivers(f *Feature) []*Driver {
	var drivers []*Driver
	for _, d := range m.SortedDrivers() {
		if f.Declares(d.Key) {
			drivers = append(drivers, d)
		}
	}
	return drivers
}

// Implementation returns f's implementation for driverKey. Drivers the
// feature does not mention report the default status.
func (m *Matrix) Implementation(f *Feature, driverKey string) Implementation {
	return f.Implementations[driverKey].Resolved()
}
