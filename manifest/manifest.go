// Package manifest implements __meta.json, the record of the latest
// Weblate change per component plus the synthetic "__master" entry that
// holds the most recent of them.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the manifest file name inside the output directory.
const FileName = "__meta.json"

// MasterKey is the synthetic entry holding the most recent component change.
const MasterKey = "__master"

// ErrNoMaster is returned when a manifest lacks the MasterKey entry.
var ErrNoMaster = errors.New("master meta not found")

// timeLayout renders a local date-time without offset; fractional seconds
// are trimmed of trailing zeros.
const timeLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a point in time serialized as a UTC local date-time.
type Timestamp struct {
	time.Time
}

// Epoch is the baseline every real change supersedes.
var Epoch = Timestamp{time.Unix(0, 0).UTC()}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(timeLayout))
}

// UnmarshalJSON accepts RFC 3339 values and offset-less local date-times
// (read as UTC).
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp parses s as RFC 3339 or as an offset-less date-time in UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	if tm, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{tm.UTC()}, nil
	}
	tm, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return Timestamp{tm}, nil
}

// Record is the latest known change of one component.
type Record struct {
	LastID         int64     `json:"last_id"`
	LastModifiedAt Timestamp `json:"last_modified_at"`
}

// Manifest maps component slugs (and MasterKey) to their latest change.
type Manifest map[string]Record

// New returns a manifest holding only the epoch master record.
func New() Manifest {
	return Manifest{MasterKey: {LastID: 0, LastModifiedAt: Epoch}}
}

// Add records the latest change of component and promotes it to master
// when it is strictly newer than the current master. Components sharing
// the master's timestamp keep the earlier one.
func (m Manifest) Add(component string, r Record) {
	m[component] = r
	master, ok := m[MasterKey]
	if !ok || r.LastModifiedAt.After(master.LastModifiedAt.Time) {
		m[MasterKey] = r
	}
}

// Master returns the master record.
func (m Manifest) Master() (Record, error) {
	r, ok := m[MasterKey]
	if !ok {
		return Record{}, ErrNoMaster
	}
	return r, nil
}

// Components returns the number of real component entries.
func (m Manifest) Components() int {
	n := 0
	for k := range m {
		if !strings.HasPrefix(k, "__") {
			n++
		}
	}
	return n
}

// Marshal renders the manifest as indented JSON (keys sorted).
func (m Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Write stores the manifest as dir/__meta.json.
func (m Manifest) Write(dir string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads dir/__meta.json.
func Load(dir string) (Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}
