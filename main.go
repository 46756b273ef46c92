// xliff-translator — translates Xcode XLIFF localization exports using
// the Anthropic Claude API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xiao99xiao/XliffTranslator/claude"
	"github.com/xiao99xiao/XliffTranslator/config"
	"github.com/xiao99xiao/XliffTranslator/i18n"
	"github.com/xiao99xiao/XliffTranslator/langmeta"
	"github.com/xiao99xiao/XliffTranslator/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// defaultContextFile is tried when --context-file is not given; it may be
// absent, in which case translation runs without app context.
const defaultContextFile = "app_context.yaml"

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

type cliOptions struct {
	inputPath    string
	folderPath   string
	targetLang   string
	languages    string
	contextFile  string
	contextGiven bool
	promptsFile  string
	translateAll bool
	sourceLang   string
	model        string
	batchSize    int
	maxRetries   int
	retryDelay   time.Duration
	timeout      time.Duration
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "xliff-translator",
		Short: "Translate XLIFF files using Claude AI",
		Long: `xliff-translator — translate Xcode XLIFF localization exports using Claude AI.

Strings are sent to the API in batches; batches whose response does not
line up are bisected and retried, and strings that cannot be translated
even alone are skipped rather than failing the run. Each translated file
gets a .bak sibling with its pre-translation content.

Modes:
  --input    translate a single .xliff file (requires --target-language)
  --folder   translate every <lang>.xcloc bundle in an Xcode export folder`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.inputPath == "") == (opts.folderPath == "") {
				return errors.New("exactly one of --input or --folder is required")
			}
			if opts.inputPath != "" && opts.targetLang == "" {
				return errors.New("--target-language is required when using --input")
			}
			if opts.languages != "" && opts.folderPath == "" {
				return errors.New("--languages can only be used with --folder")
			}
			opts.contextGiven = cmd.Flags().Changed("context-file")
			return run(opts)
		},
	}

	f := root.Flags()
	f.StringVarP(&opts.inputPath, "input", "i", "", "Single XLIFF file to translate")
	f.StringVarP(&opts.folderPath, "folder", "f", "", "Xcode export folder containing .xcloc bundles")
	f.StringVarP(&opts.targetLang, "target-language", "t", "", "Target language code (required with --input)")
	f.StringVarP(&opts.languages, "languages", "l", "", "Comma-separated language codes to process (folder mode only)")
	f.StringVarP(&opts.contextFile, "context-file", "c", defaultContextFile, "Path to app context YAML file")
	f.StringVarP(&opts.promptsFile, "prompts-file", "p", "", "Path to prompts YAML file")
	f.BoolVarP(&opts.translateAll, "translate-all", "a", false, "Translate all strings, including already translated ones")
	f.StringVar(&opts.sourceLang, "source-language", "en", "Source language code (bundle skipped in folder mode)")
	f.StringVar(&opts.model, "model", claude.DefaultModel, "Claude model identifier")
	f.IntVar(&opts.batchSize, "batch-size", 10, "Strings per API call")
	f.IntVar(&opts.maxRetries, "max-retries", 3, "Attempts per batch before giving up")
	f.DurationVar(&opts.retryDelay, "retry-delay", 2*time.Second, "Delay between retry attempts")
	f.DurationVar(&opts.timeout, "timeout", 120*time.Second, "Per-request timeout")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Detailed logging instead of a progress bar")

	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	// Pick up CLAUDE_API_KEY from a .env file when present.
	_ = godotenv.Load()
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString(i18n.T("Error:")), err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("xliff-translator version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Translation run
// ---------------------------------------------------------------------------

func run(opts *cliOptions) error {
	logger := newLogger(opts.verbose)

	appContext, err := loadAppContext(opts.contextFile, opts.contextGiven, logger)
	if err != nil {
		return err
	}

	prompts, err := config.LoadPrompts(opts.promptsFile)
	if err != nil {
		return err
	}

	client, err := claude.New(claude.Config{
		Model:   opts.model,
		Timeout: opts.timeout,
		Prompts: prompts,
		Logger:  logger.WithField("component", "claude"),
	})
	if err != nil {
		return err
	}

	progress := &progressPrinter{enabled: !opts.verbose}
	fileOpts := translate.FileOptions{
		AppContext:     appContext,
		SkipTranslated: !opts.translateAll,
		SourceLang:     opts.sourceLang,
		BatchSize:      opts.batchSize,
		MaxRetries:     opts.maxRetries,
		RetryDelay:     opts.retryDelay,
		Logger:         logger.WithField("component", "translator"),
		OnProgress:     progress.update,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opts.inputPath != "" {
		if err := translate.TranslateFile(ctx, client, opts.inputPath, opts.targetLang, fileOpts); err != nil {
			return err
		}
		progress.finish()
		fmt.Printf(i18n.T("Translation completed successfully. Original file updated: %s\n"), opts.inputPath)
		fmt.Printf(i18n.T("Backup saved at: %s\n"), opts.inputPath+".bak")
		return nil
	}

	languages := splitLanguages(opts.languages)
	if len(languages) > 0 {
		fmt.Printf(i18n.T("Processing specified languages: %s\n"), strings.Join(languages, ", "))
	}

	results, err := translate.TranslateExport(ctx, client, opts.folderPath, languages, fileOpts)
	if err != nil {
		return err
	}
	progress.finish()

	successful, failed := translate.Summary(results)
	printSummary(successful, failed)

	if len(successful) == 0 {
		return errors.New(i18n.T("all languages failed"))
	}
	return nil
}

// loadAppContext resolves the context file. An explicitly given path must
// exist; the default path may be absent (warn and continue without context).
func loadAppContext(path string, explicit bool, logger *logrus.Logger) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return "", fmt.Errorf("context file not found: %s", path)
		}
		logger.Warnf("app context file %q not found, translating without app context", path)
		return "", nil
	}

	appCtx, err := config.LoadContext(path)
	if err != nil {
		return "", err
	}
	return appCtx.Format(), nil
}

func splitLanguages(s string) []string {
	if s == "" {
		return nil
	}
	var langs []string
	for _, lang := range strings.Split(s, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	return langs
}

func printSummary(successful, failed []string) {
	fmt.Println()
	fmt.Println(i18n.T("Translation Summary:"))
	if len(successful) > 0 {
		fmt.Println(color.GreenString(i18n.T("Successfully translated:")))
		for _, lang := range successful {
			fmt.Printf("  - %s (%s)\n", lang, langmeta.Resolve(lang).Native)
		}
	}
	if len(failed) > 0 {
		fmt.Println(color.RedString(i18n.T("Failed to translate:")))
		for _, lang := range failed {
			fmt.Printf("  - %s (%s)\n", lang, langmeta.Resolve(lang).Native)
		}
	}
}

// ---------------------------------------------------------------------------
// Logging and progress
// ---------------------------------------------------------------------------

func newLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}

// progressPrinter renders a per-file progress bar. A fresh bar starts when
// the reported counts cannot belong to the current file anymore: the done
// count went backwards, the total changed, or the current bar is complete.
type progressPrinter struct {
	enabled bool
	bar     *progressbar.ProgressBar
	last    int
	total   int
}

func (p *progressPrinter) update(done, total int) {
	if !p.enabled {
		return
	}
	if p.bar == nil || done < p.last || total != p.total || p.last == p.total {
		p.finish()
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription(i18n.T("translating")),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		p.total = total
	}
	p.last = done
	_ = p.bar.Set(done)
}

func (p *progressPrinter) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
	p.last = 0
	p.total = 0
}
