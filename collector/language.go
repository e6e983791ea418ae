package collector

import (
	"context"
	"fmt"

	"github.com/MilthmLang/LanguageCollector/bundle"
	"github.com/MilthmLang/LanguageCollector/merge"
	"github.com/MilthmLang/LanguageCollector/weblate"
	"go.uber.org/zap"
)

// FetchLanguage downloads lang from every configured component, merges the
// accepted keys and writes {outputDir}/{lang}.json, replacing any previous
// file. A 404 for a component skips it; any other error aborts the
// language before anything is written.
func (c *Collector) FetchLanguage(ctx context.Context, lang string) error {
	client := c.newClient()
	log := c.log.With(zap.String("language", lang))

	m := merge.New(c.filter)
	for _, component := range c.cfg.Components {
		log.Info("Fetching component", zap.String("component", component))

		tr, err := client.FetchTranslations(ctx, c.cfg.Project, component, lang)
		if err != nil {
			if weblate.IsNotFound(err) {
				log.Warn("Component not found (404). Skipping.", zap.String("component", component))
				continue
			}
			return fmt.Errorf("failed to fetch component '%s' for language '%s': %w", component, lang, err)
		}

		kept, dups := m.Add(component, tr)
		for _, d := range dups {
			log.Error("Duplicate key found. Overwriting previous value.",
				zap.String("key", d.Key),
				zap.String("component", d.Component),
				zap.String("previous_component", d.Previous))
		}
		log.Debug("Component merged",
			zap.String("component", component),
			zap.Int("received", len(tr)),
			zap.Int("kept", kept))
	}

	path := bundle.Path(c.cfg.OutputDir, lang)
	if err := bundle.New(lang, m.Result()).WriteFile(path); err != nil {
		return err
	}
	log.Info("Language written", zap.String("path", path), zap.Int("keys", m.Len()))
	return nil
}
