package weblate

import "time"

// Language is an entry of GET /projects/{project}/languages/.
type Language struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Total             int     `json:"total"`
	Translated        int     `json:"translated"`
	TranslatedPercent float64 `json:"translated_percent"`
}

// ComponentProject is the project reference embedded in a component.
type ComponentProject struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	ID   int64  `json:"id"`
}

// Component is an entry of GET /projects/{project}/components/.
type Component struct {
	Name       string           `json:"name"`
	Slug       string           `json:"slug"`
	Project    ComponentProject `json:"project"`
	IsGlossary bool             `json:"is_glossary"`
}

// Change is one entry of a component change log.
type Change struct {
	ID          int64          `json:"id"`
	Unit        string         `json:"unit"`
	Component   string         `json:"component"`
	Translation string         `json:"translation"`
	User        string         `json:"user"`
	Author      string         `json:"author"`
	Timestamp   time.Time      `json:"timestamp"`
	Action      int            `json:"action"`
	ActionName  string         `json:"action_name"`
	Target      string         `json:"target"`
	Old         string         `json:"old"`
	Details     map[string]any `json:"details"`
	URL         string         `json:"url"`
}

// page is the paginated envelope Weblate wraps list results in.
type page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

// Translations maps translation keys to translated strings, as returned by
// the JSON file download of one (component, language) pair.
type Translations map[string]string
