package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func ts(t *testing.T, s string) Timestamp {
	t.Helper()
	v, err := ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q): %v", s, err)
	}
	return v
}

func TestNewHasEpochMaster(t *testing.T) {
	m := New()
	master, err := m.Master()
	if err != nil {
		t.Fatalf("Master: %v", err)
	}
	if master.LastID != 0 || !master.LastModifiedAt.Equal(time.Unix(0, 0)) {
		t.Fatalf("unexpected baseline: %#v", master)
	}
	if m.Components() != 0 {
		t.Fatalf("Components() = %d, want 0", m.Components())
	}
}

func TestAddTracksLatest(t *testing.T) {
	m := New()
	m.Add("main", Record{LastID: 10, LastModifiedAt: ts(t, "2024-01-01T00:00:00Z")})
	m.Add("story", Record{LastID: 25, LastModifiedAt: ts(t, "2024-03-01T00:00:00Z")})
	m.Add("web", Record{LastID: 30, LastModifiedAt: ts(t, "2024-02-01T00:00:00Z")})

	master, _ := m.Master()
	if master.LastID != 25 {
		t.Fatalf("master.LastID = %d, want 25", master.LastID)
	}
	if m.Components() != 3 {
		t.Fatalf("Components() = %d, want 3", m.Components())
	}
}

func TestAddTieKeepsFirst(t *testing.T) {
	m := New()
	same := ts(t, "2024-05-05T05:05:05Z")
	m.Add("main", Record{LastID: 7, LastModifiedAt: same})
	m.Add("story", Record{LastID: 9, LastModifiedAt: same})

	master, _ := m.Master()
	if master.LastID != 7 {
		t.Fatalf("tie must keep the first component, got LastID %d", master.LastID)
	}
}

func TestAddComparesInstantsAcrossOffsets(t *testing.T) {
	m := New()
	m.Add("main", Record{LastID: 1, LastModifiedAt: ts(t, "2024-05-05T10:00:00+08:00")})
	m.Add("story", Record{LastID: 2, LastModifiedAt: ts(t, "2024-05-05T03:00:00Z")})

	master, _ := m.Master()
	if master.LastID != 2 {
		t.Fatalf("03:00Z is later than 10:00+08:00, got master %d", master.LastID)
	}
}

func TestTimestampJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "2024-05-01T10:20:30.123456Z", want: `"2024-05-01T10:20:30.123456"`},
		{in: "2024-05-01T18:20:30+08:00", want: `"2024-05-01T10:20:30"`},
		{in: "2024-05-01T10:20:30.5", want: `"2024-05-01T10:20:30.5"`},
	}
	for _, tc := range cases {
		got, err := json.Marshal(ts(t, tc.in))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(got) != tc.want {
			t.Errorf("Marshal(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	epoch, _ := json.Marshal(Epoch)
	if string(epoch) != `"1970-01-01T00:00:00"` {
		t.Fatalf("Epoch = %s", epoch)
	}

	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatal("expected error for invalid timestamp")
	}
}

func TestWriteAndLoad(t *testing.T) {
	dir := t.TempDir()
	m := New()
	m.Add("main", Record{LastID: 11, LastModifiedAt: ts(t, "2024-01-01T00:00:00.25Z")})

	if err := m.Write(dir); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"__master": {`, `"last_id": 11`, `"last_modified_at": "2024-01-01T00:00:00.25"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("manifest missing %q:\n%s", want, data)
		}
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	master, err := loaded.Master()
	if err != nil || master.LastID != 11 {
		t.Fatalf("loaded master = %#v, %v", master, err)
	}
	if !loaded["main"].LastModifiedAt.Equal(m["main"].LastModifiedAt.Time) {
		t.Fatalf("timestamp changed on round trip: %v vs %v", loaded["main"].LastModifiedAt, m["main"].LastModifiedAt)
	}
}

func TestMasterMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(`{"main":{"last_id":1,"last_modified_at":"2024-01-01T00:00:00"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := m.Master(); !errors.Is(err, ErrNoMaster) {
		t.Fatalf("Master() error = %v, want ErrNoMaster", err)
	}
}
