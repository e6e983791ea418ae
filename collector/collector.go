// Package collector pulls translations of every language of a Weblate
// project and writes them as one bundle file per language, plus the
// __meta.json manifest describing the latest change of each component.
//
// A run:
//
//  1. validates the configuration (a blank token fails before any request)
//  2. lists the project languages, dropping the "und" pseudo-language
//  3. records the latest change of every configured component, writes
//     the manifest and exposes its master change id
//  4. fetches all languages concurrently and waits for every one of them
//
// Failing languages do not stop the others; they are all reported in the
// returned *RunError once every worker has finished.
package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MilthmLang/LanguageCollector/config"
	"github.com/MilthmLang/LanguageCollector/keyfilter"
	"github.com/MilthmLang/LanguageCollector/manifest"
	"github.com/MilthmLang/LanguageCollector/weblate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UndeterminedLanguage is Weblate's pseudo-language, never collected.
const UndeterminedLanguage = "und"

// ErrNoChanges is returned when a component has an empty change log.
var ErrNoChanges = errors.New("component has no recorded changes")

// LanguageError is the failure of one language.
type LanguageError struct {
	Language string
	Err      error
}

func (e *LanguageError) Error() string {
	return fmt.Sprintf("language %s: %v", e.Language, e.Err)
}

func (e *LanguageError) Unwrap() error {
	return e.Err
}

// RunError aggregates every failed language of a run.
type RunError struct {
	Failed []*LanguageError
}

func (e *RunError) Error() string {
	langs := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		langs[i] = f.Language
	}
	return fmt.Sprintf("%d language(s) failed: %s", len(e.Failed), strings.Join(langs, ", "))
}

func (e *RunError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f
	}
	return errs
}

// Result describes a finished run.
type Result struct {
	// Manifest is the manifest written to __meta.json.
	Manifest manifest.Manifest
	// MasterID is the last id of the most recently changed component.
	MasterID int64
	// Languages are the collected language codes, in upstream order.
	Languages []string
}

// Collector drives collection runs. Its configuration is read-only once
// created and shared by all language workers.
type Collector struct {
	cfg    config.Config
	filter keyfilter.Filter
	log    *zap.Logger

	// OnLanguageDone, if set, is called from the worker goroutine after
	// each language finishes; err is nil on success.
	OnLanguageDone func(lang string, err error)
	// OnLanguages, if set, is called with the language list before the
	// workers start.
	OnLanguages func(langs []string)
}

// New creates a Collector. A nil logger disables logging.
func New(cfg config.Config, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Components = append([]string(nil), cfg.Components...)
	return &Collector{cfg: cfg, filter: cfg.Filter(), log: logger}
}

// newClient builds the API client of one unit of work.
func (c *Collector) newClient() *weblate.Client {
	return weblate.New(weblate.Config{
		Endpoint: c.cfg.Endpoint,
		Token:    c.cfg.Token,
		Timeout:  c.cfg.Timeout,
		Logger:   c.log,
	})
}

// Run performs a full collection. On language failures the returned
// Result is still populated and the error is a *RunError.
func (c *Collector) Run(ctx context.Context) (*Result, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	c.log.Info("Syncing Weblate translation from remote...",
		zap.String("endpoint", c.cfg.Endpoint), zap.String("project", c.cfg.Project))

	client := c.newClient()

	langs, err := c.languages(ctx, client)
	if err != nil {
		return nil, err
	}
	c.log.Info("Languages", zap.Strings("languages", langs))

	m, err := c.BuildManifest(ctx, client)
	if err != nil {
		return nil, err
	}
	if err := m.Write(c.cfg.OutputDir); err != nil {
		return nil, err
	}
	master, _ := m.Master()
	c.log.Info("Component metas written",
		zap.Int("components", m.Components()),
		zap.Int64("master_last_id", master.LastID),
		zap.Time("master_last_modified_at", master.LastModifiedAt.Time))

	res := &Result{Manifest: m, MasterID: master.LastID, Languages: langs}

	if c.OnLanguages != nil {
		c.OnLanguages(langs)
	}
	if err := c.fetchAll(ctx, langs); err != nil {
		return res, err
	}

	c.log.Info(fmt.Sprintf("Successfully synced %d languages.", len(langs)))
	return res, nil
}

func (c *Collector) languages(ctx context.Context, client *weblate.Client) ([]string, error) {
	list, err := client.ListLanguages(ctx, c.cfg.Project)
	if err != nil {
		return nil, fmt.Errorf("listing languages of %s: %w", c.cfg.Project, err)
	}
	langs := make([]string, 0, len(list))
	for _, l := range list {
		if l.Code == UndeterminedLanguage || l.Code == "" {
			continue
		}
		langs = append(langs, l.Code)
	}
	return langs, nil
}

// BuildManifest fetches the latest change of every configured component,
// in configuration order.
func (c *Collector) BuildManifest(ctx context.Context, client *weblate.Client) (manifest.Manifest, error) {
	m := manifest.New()
	for _, component := range c.cfg.Components {
		changes, err := client.ListComponentChanges(ctx, c.cfg.Project, component)
		if err != nil {
			return nil, fmt.Errorf("fetching changes of component '%s': %w", component, err)
		}
		latest, ok := LatestChange(changes)
		if !ok {
			return nil, fmt.Errorf("component '%s': %w", component, ErrNoChanges)
		}
		c.log.Debug("Latest change",
			zap.String("component", component),
			zap.Int64("last_id", latest.ID),
			zap.Time("timestamp", latest.Timestamp))
		m.Add(component, manifest.Record{
			LastID:         latest.ID,
			LastModifiedAt: manifest.Timestamp{Time: latest.Timestamp.UTC()},
		})
	}
	return m, nil
}

// LatestChange picks the newest change; equal timestamps prefer the higher
// id. Weblate lists changes newest first, so this is normally changes[0].
func LatestChange(changes []weblate.Change) (weblate.Change, bool) {
	if len(changes) == 0 {
		return weblate.Change{}, false
	}
	best := changes[0]
	for _, ch := range changes[1:] {
		if ch.Timestamp.After(best.Timestamp) || (ch.Timestamp.Equal(best.Timestamp) && ch.ID > best.ID) {
			best = ch
		}
	}
	return best, true
}

// fetchAll runs one worker per language and waits for all of them.
func (c *Collector) fetchAll(ctx context.Context, langs []string) error {
	var g errgroup.Group
	if c.cfg.Concurrency > 0 {
		g.SetLimit(c.cfg.Concurrency)
	}

	errs := make([]*LanguageError, len(langs))
	for i, lang := range langs {
		g.Go(func() error {
			err := c.FetchLanguage(ctx, lang)
			if err != nil {
				c.log.Error("Language failed", zap.String("language", lang), zap.Error(err))
				errs[i] = &LanguageError{Language: lang, Err: err}
			}
			if c.OnLanguageDone != nil {
				c.OnLanguageDone(lang, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var failed []*LanguageError
	for _, e := range errs {
		if e != nil {
			failed = append(failed, e)
		}
	}
	if len(failed) > 0 {
		return &RunError{Failed: failed}
	}
	return nil
}
