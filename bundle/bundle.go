// Package bundle reads and writes per-language translation bundles.
//
// A bundle is a flat JSON object of translation key to translated string,
// stored as {outputDir}/{language}.json:
//
//	{
//	  "menu.start": "Start",
//	  "menu.quit": "Quit"
//	}
//
// Keys are always written in ascending byte order with two-space
// indentation, so the same translations produce byte-identical files.
package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the file extension of bundle files.
const Ext = ".json"

// File is one language bundle.
type File struct {
	Language     string
	Translations map[string]string
}

// New creates a bundle for lang holding translations.
func New(lang string, translations map[string]string) *File {
	if translations == nil {
		translations = make(map[string]string)
	}
	return &File{Language: lang, Translations: translations}
}

// FileName returns the bundle file name of lang.
func FileName(lang string) string {
	return lang + Ext
}

// Path returns the bundle path of lang inside dir.
func Path(dir, lang string) string {
	return filepath.Join(dir, FileName(lang))
}

// ParseFile reads a bundle from disk; the language is taken from the file name.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.Language = strings.TrimSuffix(filepath.Base(path), Ext)
	return f, nil
}

// Parse decodes bundle JSON.
func Parse(data []byte) (*File, error) {
	var tr map[string]string
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, err
	}
	return New("", tr), nil
}

// Keys returns the translation keys in ascending order.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.Translations))
	for k := range f.Translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (f *File) Len() int {
	return len(f.Translations)
}

// Marshal renders the bundle as pretty-printed JSON with sorted keys.
// HTML characters are not escaped.
func (f *File) Marshal() ([]byte, error) {
	keys := f.Keys()
	if len(keys) == 0 {
		return []byte("{}\n"), nil
	}

	var b bytes.Buffer
	b.WriteString("{\n")
	for i, k := range keys {
		kq, err := jsonString(k)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", k, err)
		}
		vq, err := jsonString(f.Translations[k])
		if err != nil {
			return nil, fmt.Errorf("encoding value of %q: %w", k, err)
		}
		b.WriteString("  ")
		b.Write(kq)
		b.WriteString(": ")
		b.Write(vq)
		if i < len(keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.Bytes(), nil
}

// WriteFile writes the bundle to path, replacing any existing file.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// jsonString encodes s as a JSON string literal without HTML escaping.
func jsonString(s string) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}
