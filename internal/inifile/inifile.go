// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package inifile reads INI-style structured text into ordered sections.
//
// The dialect matches what support matrix files are written against:
//   - option names are folded to lower case, section names are kept as written
//   - "=" and ":" both separate names from values
//   - "#" and ";" start full-line comments; there are no inline comments, so
//     URLs containing "#" survive intact
//   - indented lines continue the previous value; each continuation line
//     is trimmed and joined with "\n"
//   - values are returned raw, without quote stripping or interpolation,
//     including values that open with a backtick or triple quote
//   - options of the [DEFAULT] section are inherited by every other section
//   - an option before the first section header is a syntax error
//
// Presence checks for individual options belong to the caller.
package inifile

import (
	"bytes"
	"os"
	"strings"

	"gopkg.in/ini.v1"
	"grimm.is/supportmatrix/internal/errors"
)

// Option is a single name/value pair of a section.
type Option struct {
	Name  string
	Value string
}

// Section is a named, ordered set of options.
type Section struct {
	name    string
	options []Option
	index   map[string]int
}

// Name returns the section name as written in the file.
func (s *Section) Name() string { return s.name }

// Keys returns option names in file order, inherited defaults last.
func (s *Section) Keys() []string {
	keys := make([]string, len(s.options))
	for i, opt := range s.options {
		keys[i] = opt.Name
	}
	return keys
}

// Options returns a copy of the section's options in file order.
func (s *Section) Options() []Option {
	return append([]Option(nil), s.options...)
}

// Has reports whether the option exists in the section.
func (s *Section) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Get returns the option value and whether it was present.
func (s *Section) Get(name string) (string, bool) {
	i, ok := s.index[name]
	if !ok {
		return "", false
	}
	return s.options[i].Value, true
}

func (s *Section) add(name, value string) {
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = len(s.options)
	s.options = append(s.options, Option{Name: name, Value: value})
}

// File is a parsed INI document.
type File struct {
	name     string
	sections []*Section
	byName   map[string]*Section
}

// Name returns the source name the file was parsed from.
func (f *File) Name() string { return f.name }

// Sections returns sections in file order. The DEFAULT section is not
// included.
func (f *File) Sections() []*Section {
	return append([]*Section(nil), f.sections...)
}

// Section returns the named section, if present.
func (f *File) Section(name string) (*Section, bool) {
	s, ok := f.byName[name]
	return s, ok
}

var loadOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	IgnoreContinuation:         true,
	IgnoreInlineComment:        true,
	AllowPythonMultilineValues: true,
	PreserveSurroundedQuote:    true,
	KeyValueDelimiters:         "=:",
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Attr(errors.Wrap(err, errors.KindIO, "failed to read matrix file"), "path", path)
	}
	return Parse(path, data)
}

// Parse parses INI text. name is used in error messages only.
func Parse(name string, data []byte) (*File, error) {
	data, quoted, err := prescan(data)
	if err != nil {
		return nil, errors.Attr(err, "path", name)
	}

	raw, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, errors.Attr(errors.Wrap(err, errors.KindSyntax, "malformed matrix file"), "path", name)
	}

	value := func(section string, key *ini.Key) string {
		v := joinContinuation(key.Value())
		if first, ok := quoted[optionKey{section, key.Name()}]; ok {
			return first + v
		}
		return v
	}

	var defaults []Option
	if def, err := raw.GetSection(ini.DefaultSection); err == nil {
		for _, key := range def.Keys() {
			defaults = append(defaults, Option{Name: key.Name(), Value: value(ini.DefaultSection, key)})
		}
	}

	f := &File{name: name, byName: make(map[string]*Section)}
	for _, rs := range raw.Sections() {
		if rs.Name() == ini.DefaultSection {
			continue
		}
		sec := &Section{name: rs.Name(), index: make(map[string]int)}
		for _, key := range rs.Keys() {
			sec.add(key.Name(), value(rs.Name(), key))
		}
		for _, opt := range defaults {
			sec.add(opt.Name, opt.Value)
		}
		f.sections = append(f.sections, sec)
		f.byName[sec.name] = sec
	}

	return f, nil
}

type optionKey struct {
	section string
	name    string
}

// prescan rejects options outside any section and blanks values that ini
// would otherwise unquote, returning their first line as written. The
// blanked option keeps its line ending so continuation lines still attach.
func prescan(data []byte) ([]byte, map[optionKey]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	quoted := make(map[optionKey]string)
	out := make([]byte, 0, len(data))

	var section string
	inSection, inValue := false, false
	for n, line := range bytes.SplitAfter(data, []byte("\n")) {
		content := strings.TrimRight(string(line), "\r\n")
		trimmed := strings.TrimSpace(content)

		switch {
		case trimmed == "":
			inValue = false
		case inValue && (content[0] == ' ' || content[0] == '\t' || content[0] == '\f'):
			// continuation
		case trimmed[0] == '#' || trimmed[0] == ';':
			inValue = false
		case trimmed[0] == '[':
			if i := strings.LastIndexByte(trimmed, ']'); i > 0 {
				section, inSection = trimmed[1:i], true
			}
			inValue = false
		default:
			if !inSection {
				return nil, nil, errors.Attr(errors.Errorf(errors.KindSyntax,
					"malformed matrix file: option outside any section: %s", trimmed), "line", n+1)
			}
			inValue = true

			i := strings.IndexAny(trimmed, "=:")
			if i <= 0 || trimmed[0] == '"' || trimmed[0] == '`' {
				break
			}
			key := optionKey{section, strings.ToLower(strings.TrimSpace(trimmed[:i]))}
			v := strings.TrimSpace(trimmed[i+1:])
			if !strings.HasPrefix(v, "`") && !strings.HasPrefix(v, `"""`) {
				// A later plain assignment replaces an earlier quoted one.
				delete(quoted, key)
				break
			}
			quoted[key] = v
			line = append([]byte(trimmed[:i+1]), line[len(content):]...)
		}

		out = append(out, line...)
	}

	return out, quoted, nil
}

// joinContinuation trims every continuation line and drops trailing empty
// ones.
func joinContinuation(v string) string {
	if !strings.Contains(v, "\n") {
		return v
	}
	lines := strings.Split(v, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
