// Package projects loads the tag to project mapping and resolves activities to projects.
package projects

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bryan-cox/taimio-report/internal/model"
)

// LineError is returned for a mapping line without a '=' separator.
type LineError struct {
	Line int
	Text string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: expected 'tag = project', got %q", e.Line, e.Text)
}

// Mapping is an ordered tag to project table. It is read-only once loaded.
type Mapping struct {
	order    []string
	projects map[string]string
}

// NewMapping builds a mapping from alternating tag, project pairs. Used mostly in tests.
func NewMapping(pairs ...string) *Mapping {
	m := &Mapping{projects: make(map[string]string)}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.set(pairs[i], pairs[i+1])
	}
	return m
}

func (m *Mapping) set(tag, project string) {
	if _, exists := m.projects[tag]; !exists {
		m.order = append(m.order, tag)
	}
	m.projects[tag] = project
}

// Load reads a mapping file from disk.
func Load(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open project mapping '%s': %w", path, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse project mapping '%s': %w", path, err)
	}
	return m, nil
}

// Parse reads 'tag = project' lines. Any line without '=', blank lines
// included, fails the whole parse.
func Parse(r io.Reader) (*Mapping, error) {
	m := NewMapping()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		tag, project, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &LineError{Line: lineNo, Text: line}
		}
		m.set(strings.TrimSpace(tag), strings.TrimSpace(project))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Resolve returns the project of the first tag, in the given order, that has a
// mapping entry, or model.OtherProject if none do.
func (m *Mapping) Resolve(tags []string) string {
	for _, tag := range tags {
		if project, ok := m.projects[tag]; ok {
			return project
		}
	}
	return model.OtherProject
}

// lookup returns the project mapped to a single tag.
func (m *Mapping) lookup(tag string) (string, bool) {
	project, ok := m.projects[tag]
	return project, ok
}

// tags returns the mapped tags in file order.
func (m *Mapping) tags() []string {
	return append([]string(nil), m.order...)
}

// Len returns the number of mapped tags.
func (m *Mapping) Len() int {
	return len(m.order)
}
