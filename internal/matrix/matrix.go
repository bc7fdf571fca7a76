// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package matrix builds the support matrix model from a parsed matrix file.
//
// Drivers come from [driver.<id>] sections and features from
// [operation.<id>] sections. Inside a feature section, every driver.<id>
// option declares that driver's implementation status and the matching
// driver-notes.<id> option annotates it. Drivers may be declared anywhere
// in the file; construction fails on the first schema violation.
package matrix

import (
	"regexp"
	"strings"

	"grimm.is/supportmatrix/internal/errors"
	"grimm.is/supportmatrix/internal/inifile"
)

// statusPattern is STATUS or STATUS(GROUP).
var statusPattern = regexp.MustCompile(`^([^(]+)(?:\(([^)]+)\))?$`)

// ParseStatus splits a status option value into its status and optional
// group, and checks the status against FeatureStatuses.
func ParseStatus(value string) (FeatureStatus, *string, error) {
	m := statusPattern.FindStringSubmatch(value)
	if m == nil {
		return "", nil, errors.Errorf(errors.KindValidation,
			"'status' option value '%s' must look like STATUS or STATUS(GROUP)", value)
	}

	status := FeatureStatus(m[1])
	if !status.Valid() {
		return "", nil, errors.Errorf(errors.KindValidation,
			"'status' option value '%s' must be one of (%s)", status, joinStatuses(FeatureStatuses))
	}

	var group *string
	if m[2] != "" {
		g := m[2]
		group = &g
	}
	return status, group, nil
}

// Load reads the matrix file at path and builds a Matrix from it.
func Load(path string) (*Matrix, error) {
	f, err := inifile.Load(path)
	if err != nil {
		return nil, err
	}
	m, err := New(f)
	if err != nil {
		return nil, errors.Attr(err, "path", path)
	}
	return m, nil
}

// New builds a Matrix from a parsed matrix file.
func New(f *inifile.File) (*Matrix, error) {
	m := &Matrix{Drivers: make(map[string]*Driver)}
	if err := m.loadDrivers(f); err != nil {
		return nil, err
	}
	if err := m.loadFeatures(f); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Matrix) loadDrivers(f *inifile.File) error {
	for _, sec := range f.Sections() {
		if !strings.HasPrefix(sec.Name(), DriverPrefix) {
			continue
		}

		title, ok := sec.Get("title")
		if !ok {
			return sectionErr(errors.Errorf(errors.KindValidation,
				"'title' option missing in '[%s]' section", sec.Name()), sec.Name(), "title")
		}

		d := &Driver{Key: sec.Name(), Title: title}
		if link, ok := sec.Get("link"); ok {
			d.Link = &link
		}

		if _, dup := m.Drivers[d.Key]; !dup {
			m.driverOrder = append(m.driverOrder, d.Key)
		}
		m.Drivers[d.Key] = d
	}
	return nil
}

func (m *Matrix) loadFeatures(f *inifile.File) error {
	for _, sec := range f.Sections() {
		if !strings.HasPrefix(sec.Name(), FeaturePrefix) {
			continue
		}

		feature, err := parseFeature(sec)
		if err != nil {
			return err
		}

		for _, opt := range sec.Options() {
			if !strings.HasPrefix(opt.Name, DriverPrefix) {
				continue
			}
			impl, err := m.parseImplementation(sec, opt)
			if err != nil {
				return err
			}
			feature.Implementations[opt.Name] = impl
		}

		m.Features = append(m.Features, feature)
	}
	return nil
}

func parseFeature(sec *inifile.Section) (*Feature, error) {
	title, ok := sec.Get("title")
	if !ok {
		return nil, sectionErr(errors.Errorf(errors.KindValidation,
			"'title' option missing in '[%s]' section", sec.Name()), sec.Name(), "title")
	}

	feature := &Feature{
		Key:             sec.Name(),
		Title:           title,
		Status:          StatusOptional,
		Implementations: make(map[string]Implementation),
	}

	if raw, ok := sec.Get("status"); ok {
		status, group, err := ParseStatus(raw)
		if err != nil {
			err = errors.Wrapf(err, errors.KindValidation, "invalid status in '[%s]' section", sec.Name())
			return nil, errors.Attr(sectionErr(err, sec.Name(), "status"), "value", raw)
		}
		feature.Status = status
		feature.Group = group
	}

	if cli, ok := sec.Get("cli"); ok {
		feature.CLI = strings.Split(cli, ";")
	}
	if notes, ok := sec.Get("notes"); ok {
		feature.Notes = &notes
	}
	if api, ok := sec.Get("api"); ok {
		feature.API = &api
	}

	return feature, nil
}

func (m *Matrix) parseImplementation(sec *inifile.Section, opt inifile.Option) (Implementation, error) {
	if _, ok := m.Drivers[opt.Name]; !ok {
		err := errors.Errorf(errors.KindValidation,
			"'%s' section is not declared in the INI file.", opt.Name)
		return Implementation{}, sectionErr(err, sec.Name(), opt.Name)
	}

	status := ImplementationStatus(opt.Value)
	if !status.Valid() {
		err := errors.Errorf(errors.KindValidation,
			"%s is set to %s in '[%s]' section but must be one of (%s)",
			opt.Name, opt.Value, sec.Name(), joinStatuses(ImplementationStatuses))
		return Implementation{}, errors.Attr(sectionErr(err, sec.Name(), opt.Name), "value", opt.Value)
	}

	impl := Implementation{Status: status}
	notesKey := DriverNotesPrefix + strings.TrimPrefix(opt.Name, DriverPrefix)
	if notes, ok := sec.Get(notesKey); ok {
		impl.Notes = &notes
	}
	return impl, nil
}

func sectionErr(err error, section, option string) error {
	return errors.Attr(errors.Attr(err, "section", section), "option", option)
}

func joinStatuses[S ~string](statuses []S) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
