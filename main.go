// milthm-collector: collects Milthm translations from Weblate into JSON bundles.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/MilthmLang/LanguageCollector/artifact"
	"github.com/MilthmLang/LanguageCollector/bundle"
	"github.com/MilthmLang/LanguageCollector/collector"
	"github.com/MilthmLang/LanguageCollector/config"
	"github.com/MilthmLang/LanguageCollector/i18n"
	"github.com/MilthmLang/LanguageCollector/keyfilter"
	"github.com/MilthmLang/LanguageCollector/langmeta"
	"github.com/MilthmLang/LanguageCollector/manifest"
	"github.com/MilthmLang/LanguageCollector/settings"
	"github.com/MilthmLang/LanguageCollector/weblate"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
	verbose    bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "milthm-collector",
		Short: i18n.T("Collect Milthm translations from Weblate"),
		Long: `milthm-collector pulls every language of the Milthm Weblate project and
writes one JSON bundle per language plus a __meta.json manifest.

Commands:
  collect     Download all translations and write the manifest
  status      Show the manifest and the collected bundles
  languages   List the languages of the Weblate project
  components  List the components of the Weblate project
  package     Zip the collected bundles (optionally copy them for Unity)
  auth        Manage stored Weblate API tokens

Configuration (later wins):
  defaults < .milthm-collector.yaml < WEBLATE_* environment < flags`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", i18n.T("Project root directory"))
	root.PersistentFlags().StringVar(&configPath, "config", "", i18n.T("Config file (default: <root>/.milthm-collector.yaml)"))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, i18n.T("Log every API request"))

	root.AddCommand(
		newCollectCmd(),
		newStatusCmd(),
		newLanguagesCmd(),
		newComponentsCmd(),
		newPackageCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// newLogger builds the console logger used by the library packages.
func newLogger(level zapcore.Level) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func logLevel(quiet bool) zapcore.Level {
	switch {
	case verbose:
		return zapcore.DebugLevel
	case quiet:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("milthm-collector version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// Configuration resolution
// ---------------------------------------------------------------------------

// options holds the flag values shared by the commands. Only flags that
// were explicitly set override the file and environment.
type options struct {
	endpoint        string
	token           string
	project         string
	output          string
	ignoredKeys     string
	ignoredKeywords string
	concurrency     int
	timeout         time.Duration
}

func bindWeblateFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVar(&o.endpoint, "endpoint", config.DefaultEndpoint, i18n.T("Weblate API endpoint"))
	cmd.Flags().StringVar(&o.token, "token", "", i18n.T("Weblate API token (or WEBLATE_TOKEN, or 'auth login')"))
	cmd.Flags().StringVar(&o.project, "project", config.DefaultProject, i18n.T("Weblate project slug"))
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, i18n.T("Per-request timeout (0 = none)"))
}

func bindOutputFlag(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", i18n.T("Output directory (default: <root>/build/weblate)"))
}

func bindCollectFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVar(&o.ignoredKeys, "ignored-keys", "", i18n.T("Keys to drop, separated by commas or spaces"))
	cmd.Flags().StringVar(&o.ignoredKeywords, "ignored-keywords", "", i18n.T("Drop keys containing any of these words (case-insensitive)"))
	cmd.Flags().IntVar(&o.concurrency, "concurrency", 0, i18n.T("Languages fetched in parallel (0 = all at once)"))
}

// resolveConfig merges defaults, the config file, the environment and
// the explicitly set flags, then falls back to the stored token.
func resolveConfig(cmd *cobra.Command, o *options, getenv func(string) string) (config.Config, error) {
	cfg, err := config.Load(rootDir, configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(getenv)

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = o.endpoint
	}
	if flags.Changed("token") {
		cfg.Token = o.token
	}
	if flags.Changed("project") {
		cfg.Project = o.project
	}
	if flags.Changed("output") {
		cfg.OutputDir = o.output
	}
	if flags.Changed("ignored-keys") {
		cfg.IgnoredKeys = keyfilter.SplitList(o.ignoredKeys)
	}
	if flags.Changed("ignored-keywords") {
		cfg.IgnoredKeywords = keyfilter.SplitList(o.ignoredKeywords)
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = o.concurrency
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}

	cfg.Token = settings.ResolveToken(cfg.Endpoint, cfg.Token)
	return cfg, nil
}

func newClient(cfg config.Config, logger *zap.Logger) (*weblate.Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, &config.ConfigError{Field: "token", Err: config.ErrMissingToken}
	}
	return weblate.New(weblate.Config{
		Endpoint: cfg.Endpoint,
		Token:    cfg.Token,
		Timeout:  cfg.Timeout,
		Logger:   logger,
	}), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// ---------------------------------------------------------------------------
// collect
// ---------------------------------------------------------------------------

func newCollectCmd() *cobra.Command {
	var (
		o        options
		progress bool
		idFile   string
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: i18n.T("Download all translations and write the manifest"),
		Long: `Download every language of the project, merge the configured components
in order and write {lang}.json bundles plus __meta.json to the output dir.

A component missing for a language (404) is skipped. Any other failure
fails that language only; all failed languages are reported at the end.

Examples:
  milthm-collector collect --token wlu_xxx
  WEBLATE_TOKEN=wlu_xxx milthm-collector collect -o build/weblate
  milthm-collector collect --ignored-keys "debug.a, debug.b" --ignored-keywords wip
  milthm-collector collect --progress --id-file build/weblate-id.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &o, os.Getenv)
			if err != nil {
				return err
			}
			return runCollect(cfg, progress, idFile)
		},
	}

	bindWeblateFlags(cmd, &o)
	bindOutputFlag(cmd, &o)
	bindCollectFlags(cmd, &o)
	cmd.Flags().BoolVar(&progress, "progress", false, i18n.T("Show a progress bar instead of per-language logs"))
	cmd.Flags().StringVar(&idFile, "id-file", "", i18n.T("Write the master change id to this file"))

	return cmd
}

func runCollect(cfg config.Config, progress bool, idFile string) error {
	logger := newLogger(logLevel(progress))
	defer func() { _ = logger.Sync() }()

	ctx, stop := signalContext()
	defer stop()

	c := collector.New(cfg, logger)
	if progress {
		var bar *progressbar.ProgressBar
		c.OnLanguages = func(langs []string) {
			bar = newProgressBar(len(langs), i18n.T("Languages"))
		}
		c.OnLanguageDone = func(string, error) {
			_ = bar.Add(1)
		}
	}

	start := time.Now()
	res, err := c.Run(ctx)
	if res != nil {
		logInfo(i18n.T("Master change id: %d"), res.MasterID)
		if idFile != "" {
			if werr := writeIDFile(idFile, res.MasterID); werr != nil {
				return werr
			}
		}
	}

	var runErr *collector.RunError
	if errors.As(err, &runErr) {
		for _, le := range runErr.Failed {
			logError("%s: %v", le.Language, le.Err)
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			logWarning("%s", i18n.T("Interrupted"))
		}
		return err
	}

	logSuccess(i18n.T("Collected %d languages into %s (%s)"), len(res.Languages), cfg.OutputDir, time.Since(start).Round(time.Millisecond))
	return nil
}

func newProgressBar(total int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", desc)),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// writeIDFile stores the master change id for CI steps that name their
// artifacts after it.
func writeIDFile(path string, id int64) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(strconv.FormatInt(id, 10)+"\n"), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// status (read-only: manifest + collected bundles)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show the manifest and the collected bundles"),
		Long: `Show the __meta.json manifest of the output directory and the number of
keys of every collected language. Does not contact Weblate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &o, os.Getenv)
			if err != nil {
				return err
			}
			return runStatus(cfg.OutputDir)
		},
	}

	bindOutputFlag(cmd, &o)
	return cmd
}

func runStatus(dir string) error {
	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Manifest"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	absDir, _ := filepath.Abs(dir)
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", absDir)

	m, err := manifest.Load(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logInfo("%s", i18n.T("Nothing collected yet. Run 'milthm-collector collect'."))
			return nil
		}
		return err
	}

	if master, err := m.Master(); err == nil {
		fmt.Fprintf(os.Stderr, "  Master id:  %d\n", master.LastID)
		fmt.Fprintf(os.Stderr, "  Modified:   %s\n", master.LastModifiedAt.Format(time.RFC3339))
	} else {
		logWarning("%v", err)
	}
	fmt.Fprintln(os.Stderr)

	names := make([]string, 0, len(m))
	for name := range m {
		if name != manifest.MasterKey {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	width := langColumnWidth(names)
	for _, name := range names {
		r := m[name]
		fmt.Fprintf(os.Stderr, "  %-*s  %8d  %s\n", width, name, r.LastID, r.LastModifiedAt.Format(time.RFC3339))
	}
	fmt.Fprintln(os.Stderr)

	langs, err := bundleLanguages(dir)
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		logWarning(i18n.T("No language bundles in %s"), dir)
		return nil
	}

	counts := make(map[string]int, len(langs))
	most := 0
	for _, lang := range langs {
		f, err := bundle.ParseFile(bundle.Path(dir, lang))
		if err != nil {
			logWarning("%v", err)
			continue
		}
		counts[lang] = f.Len()
		most = max(most, f.Len())
	}

	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorBlue, i18n.T("Languages"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	width = langColumnWidth(langs)
	for _, lang := range langs {
		n, ok := counts[lang]
		if !ok {
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s  %s  %6d %s\n", langCell(lang, width), progressBar(coverage(n, most), 20), n, i18n.N("key", "keys", n))
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

// bundleLanguages returns the languages with a bundle in dir, sorted.
func bundleLanguages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var langs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == manifest.FileName || !strings.HasSuffix(name, bundle.Ext) {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, bundle.Ext))
	}
	sort.Strings(langs)
	return langs, nil
}

// coverage returns n as a percentage of total.
func coverage(n, total int) int {
	if total <= 0 {
		return 0
	}
	return n * 100 / total
}

// ---------------------------------------------------------------------------
// languages / components (remote listings)
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:     "languages",
		Aliases: []string{"langs"},
		Short:   i18n.T("List the languages of the Weblate project"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &o, os.Getenv)
			if err != nil {
				return err
			}
			return runLanguages(cfg)
		},
	}

	bindWeblateFlags(cmd, &o)
	return cmd
}

func runLanguages(cfg config.Config) error {
	logger := newLogger(logLevel(true))
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	list, err := client.ListLanguages(ctx, cfg.Project)
	if err != nil {
		return err
	}

	codes := make([]string, len(list))
	for i, l := range list {
		codes[i] = l.Code
	}
	width := langColumnWidth(codes)

	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, cfg.Project, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	for _, l := range list {
		note := ""
		if l.Code == collector.UndeterminedLanguage {
			note = colorYellow + " " + i18n.T("(skipped)") + colorReset
		}
		name := l.Name
		if name == "" {
			name = langmeta.Label(l.Code)
		}
		fmt.Fprintf(os.Stderr, "  %s  %s  %d/%d  %s%s\n",
			langCell(l.Code, width), progressBar(int(l.TranslatedPercent), 20), l.Translated, l.Total, name, note)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

func newComponentsCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "components",
		Short: i18n.T("List the components of the Weblate project"),
		Long: `List every component of the project. Components that are collected
are marked; configured components unknown to Weblate are reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &o, os.Getenv)
			if err != nil {
				return err
			}
			return runComponents(cfg)
		},
	}

	bindWeblateFlags(cmd, &o)
	return cmd
}

func runComponents(cfg config.Config) error {
	logger := newLogger(logLevel(true))
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	list, err := client.ListComponents(ctx, cfg.Project)
	if err != nil {
		return err
	}

	slugs := make([]string, len(list))
	for i, c := range list {
		slugs[i] = c.Slug
	}
	width := langColumnWidth(slugs)

	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, cfg.Project, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	for _, c := range list {
		mark := "  "
		if containsString(cfg.Components, c.Slug) {
			mark = colorGreen + "* " + colorReset
		}
		kind := ""
		if c.IsGlossary {
			kind = colorYellow + " " + i18n.T("(glossary)") + colorReset
		}
		fmt.Fprintf(os.Stderr, "  %s%-*s  %s%s\n", mark, width, c.Slug, c.Name, kind)
	}
	fmt.Fprintln(os.Stderr)

	for _, missing := range missingComponents(cfg.Components, slugs) {
		logWarning(i18n.T("Configured component %q does not exist upstream"), missing)
	}
	return nil
}

// missingComponents returns the configured slugs absent from upstream,
// in configuration order.
func missingComponents(configured, upstream []string) []string {
	var out []string
	for _, c := range configured {
		if !containsString(upstream, c) {
			out = append(out, c)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// package (zip + Unity copy)
// ---------------------------------------------------------------------------

func newPackageCmd() *cobra.Command {
	var (
		o        options
		dest     string
		unityDir string
	)

	cmd := &cobra.Command{
		Use:   "package",
		Short: i18n.T("Zip the collected bundles"),
		Long: `Zip the output directory into milthm-translations-{id}.zip, where {id} is
the master change id of __meta.json. With --unity-dir every file is also
copied there with a .bytes suffix for Unity TextAssets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &o, os.Getenv)
			if err != nil {
				return err
			}
			if dest == "" {
				dest = filepath.Join(rootDir, "build", "distributions")
			}
			return runPackage(cfg.OutputDir, dest, unityDir)
		},
	}

	bindOutputFlag(cmd, &o)
	cmd.Flags().StringVar(&dest, "dest", "", i18n.T("Archive directory (default: <root>/build/distributions)"))
	cmd.Flags().StringVar(&unityDir, "unity-dir", "", i18n.T("Also copy the files here as .bytes"))

	return cmd
}

func runPackage(outputDir, dest, unityDir string) error {
	logger := newLogger(logLevel(true))
	defer func() { _ = logger.Sync() }()

	path, err := artifact.Package(outputDir, dest, logger)
	if err != nil {
		return err
	}
	logSuccess(i18n.T("Archive written to %s"), path)

	if unityDir != "" {
		n, err := artifact.CopyUnity(outputDir, unityDir)
		if err != nil {
			return err
		}
		logSuccess(i18n.T("Copied %d files to %s"), n, unityDir)
	}
	return nil
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: i18n.T("Manage stored Weblate API tokens"),
		Long: `Manage Weblate API tokens stored in the user data directory.

A token passed with --token or WEBLATE_TOKEN always wins over a stored one.

Examples:
  milthm-collector auth login                      Prompt for a token
  milthm-collector auth login --token wlu_xxx      Store a token
  milthm-collector auth logout                     Remove the default endpoint token
  milthm-collector auth logout --all               Remove all tokens
  milthm-collector auth list                       Show stored tokens`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var endpoint, token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: i18n.T("Store a Weblate API token"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				existing := settings.GetToken(endpoint)
				t, err := promptToken(bufio.NewScanner(os.Stdin), existing)
				if err != nil {
					return err
				}
				if t == "" {
					logInfo("%s", i18n.T("Keeping existing token"))
					return nil
				}
				token = t
			}
			if err := settings.SetToken(endpoint, token); err != nil {
				return fmt.Errorf("saving token: %w", err)
			}
			logSuccess(i18n.T("Token saved for %s"), settings.NormalizeEndpoint(endpoint))
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", config.DefaultEndpoint, i18n.T("Weblate API endpoint"))
	cmd.Flags().StringVar(&token, "token", "", i18n.T("Token to store (prompted if omitted)"))

	return cmd
}

// promptToken reads a token from the scanner. An empty answer keeps the
// existing token and returns "".
func promptToken(scanner *bufio.Scanner, existing string) (string, error) {
	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Weblate API Token Setup"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	if existing != "" {
		fmt.Fprintf(os.Stderr, "  Current token: %s%s%s\n", colorYellow, settings.MaskKey(existing), colorReset)
		fmt.Fprint(os.Stderr, "  Enter new token to replace, or press Enter to keep: ")
	} else {
		fmt.Fprint(os.Stderr, "  Enter token: ")
	}

	if !scanner.Scan() {
		return "", errors.New("no input received")
	}
	token := strings.TrimSpace(scanner.Text())
	if token == "" && existing == "" {
		return "", config.ErrMissingToken
	}
	return token, nil
}

func newAuthLogoutCmd() *cobra.Command {
	var (
		endpoint string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "logout",
		Short: i18n.T("Remove stored tokens"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("%s", i18n.T("All tokens removed"))
				return nil
			}
			if err := settings.Remove(endpoint); err != nil {
				return err
			}
			logSuccess(i18n.T("Token removed for %s"), settings.NormalizeEndpoint(endpoint))
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", config.DefaultEndpoint, i18n.T("Weblate API endpoint"))
	cmd.Flags().BoolVar(&all, "all", false, i18n.T("Remove the tokens of every endpoint"))

	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   i18n.T("Show stored tokens"),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Stored Tokens"), colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

			store := settings.Load()
			if len(store) == 0 {
				fmt.Fprintf(os.Stderr, "  %snone%s\n", colorRed, colorReset)
			}
			for _, ep := range store.Endpoints() {
				fmt.Fprintf(os.Stderr, "  %s  %s%s%s\n", ep, colorGreen, settings.MaskKey(store[ep].Token), colorReset)
			}

			fmt.Fprintf(os.Stderr, "\n  %sEnvironment Variables%s\n", colorYellow, colorReset)
			if env := os.Getenv(config.EnvToken); env != "" {
				fmt.Fprintf(os.Stderr, "  %s: %s%s%s (overrides stored tokens)\n", config.EnvToken, colorGreen, settings.MaskKey(env), colorReset)
			} else {
				fmt.Fprintf(os.Stderr, "  %s: %snot set%s\n", config.EnvToken, colorRed, colorReset)
			}
			if p := settings.FilePath(); p != "" {
				fmt.Fprintf(os.Stderr, "\n  File: %s\n", p)
			}
			fmt.Fprintln(os.Stderr)
		},
	}
}

// ---------------------------------------------------------------------------
// Table helpers
// ---------------------------------------------------------------------------

// progressBar renders a colored bar of width cells followed by the
// percentage, clamped to 0..100.
func progressBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100

	color := colorRed
	switch {
	case percent >= 100:
		color = colorGreen
	case percent >= 50:
		color = colorYellow
	}

	return color + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + colorReset + fmt.Sprintf(" %3d%%", percent)
}

// langColumnWidth returns the width of the widest code.
func langColumnWidth(codes []string) int {
	width := 0
	for _, c := range codes {
		width = max(width, len(c))
	}
	return width
}

// langCell renders the flag and the padded language code.
func langCell(lang string, width int) string {
	flag := langmeta.Resolve(lang).Flag
	if flag == "" {
		flag = "  "
	}
	return fmt.Sprintf("%s %-*s", flag, width, lang)
}
