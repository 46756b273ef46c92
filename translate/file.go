package translate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xiao99xiao/XliffTranslator/xliff"
)

// ---------------------------------------------------------------------------
// File options
// ---------------------------------------------------------------------------

// FileOptions controls per-file and per-export translation runs.
type FileOptions struct {
	// AppContext is the context blob passed to every backend call.
	AppContext string
	// SkipTranslated keeps existing translations and only translates
	// pending units. When false, everything is re-translated.
	SkipTranslated bool
	// SourceLang is the source language code; its bundle is skipped in
	// export mode. Default: "en".
	SourceLang string
	// BatchSize, MaxRetries, RetryDelay tune the engine (see Options).
	BatchSize  int
	MaxRetries int
	RetryDelay time.Duration
	// Logger receives diagnostics. Nil discards them.
	Logger *logrus.Entry
	// OnProgress is forwarded to the engine.
	OnProgress func(done, total int)
}

func (o *FileOptions) effectiveSourceLang() string {
	if o.SourceLang != "" {
		return o.SourceLang
	}
	return "en"
}

func (o *FileOptions) log() *logrus.Entry {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// ---------------------------------------------------------------------------
// Single-file orchestration
// ---------------------------------------------------------------------------

// referenceHeader labels the existing-translations block appended to the
// app context so the backend sees prior decisions without redoing them.
const referenceHeader = "Reference translations (DO NOT modify these, they are for context only):"

// TranslateFile translates one XLIFF file in place.
//
// The original bytes are copied to <path>.bak before anything else; the
// backup is kept after success. On any failure after the backup the target
// file is restored from it before the error propagates. A document with
// pending units is translated and rewritten; one where everything is
// already translated is a no-op; one with nothing translatable at all is
// an error.
func TranslateFile(ctx context.Context, backend Backend, inputPath, targetLang string, opts FileOptions) error {
	log := opts.log()
	log.Infof("starting translation of %s", inputPath)

	original, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("input file not found: %w", err)
	}

	backupPath := inputPath + ".bak"
	log.Infof("creating backup at %s", backupPath)
	if err := os.WriteFile(backupPath, original, 0644); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := translateInPlace(ctx, backend, inputPath, targetLang, opts); err != nil {
		restore(inputPath, backupPath, log)
		return err
	}
	return nil
}

// translateInPlace runs parse → translate → rewrite. The caller owns
// backup and restore.
func translateInPlace(ctx context.Context, backend Backend, inputPath, targetLang string, opts FileOptions) error {
	log := opts.log()

	doc, err := xliff.ParseFile(inputPath)
	if err != nil {
		return err
	}

	pending, existing := collectUnits(doc, opts.SkipTranslated)
	if len(pending) == 0 && len(existing) == 0 {
		return fmt.Errorf("%w in %s", ErrNoTranslatableUnits, inputPath)
	}
	if len(pending) == 0 {
		log.Infof("all strings already translated")
		return nil
	}

	log.Infof("found %d strings to translate, %d existing translations", len(pending), len(existing))

	appContext := opts.AppContext
	if len(existing) > 0 {
		appContext += formatReferences(existing)
	}

	result, err := TranslateAll(ctx, backend, pending, Options{
		SourceLang: doc.SourceLanguage(),
		TargetLang: targetLang,
		AppContext: appContext,
		BatchSize:  opts.BatchSize,
		MaxRetries: opts.MaxRetries,
		RetryDelay: opts.RetryDelay,
		Logger:     opts.Logger,
		OnProgress: opts.OnProgress,
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	doc.SetTargetLanguage(targetLang)
	for id, text := range result {
		doc.SetTarget(id, text)
	}

	out, err := doc.Marshal()
	if err != nil {
		return err
	}
	log.Infof("saving changes to %s", inputPath)
	if err := os.WriteFile(inputPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", inputPath, err)
	}

	log.Infof("translation completed, %d strings translated", len(result))
	return nil
}

// collectUnits partitions a document's units into pending work and
// already-materialized translations.
func collectUnits(doc *xliff.Document, skipTranslated bool) ([]Unit, map[string]string) {
	var pending []Unit
	existing := make(map[string]string)
	for _, u := range doc.AllUnits() {
		if skipTranslated && u.IsTranslated() {
			existing[u.ID] = u.Target
			continue
		}
		pending = append(pending, Unit{ID: u.ID, Source: u.Source})
	}
	return pending, existing
}

// formatReferences renders existing translations as a labeled read-only
// block, ids sorted for deterministic prompts.
func formatReferences(existing map[string]string) string {
	ids := make([]string, 0, len(existing))
	for id := range existing {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(referenceHeader)
	b.WriteByte('\n')
	for _, id := range ids {
		fmt.Fprintf(&b, "- %s: %s\n", id, existing[id])
	}
	return b.String()
}

// restore copies the backup back over the target. A restore failure is
// logged but never masks the error that triggered it.
func restore(inputPath, backupPath string, log *logrus.Entry) {
	log.Infof("restoring %s from backup", inputPath)
	data, err := os.ReadFile(backupPath)
	if err != nil {
		log.Errorf("failed to restore from backup: %v", err)
		return
	}
	if err := os.WriteFile(inputPath, data, 0644); err != nil {
		log.Errorf("failed to restore from backup: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Export (directory) orchestration
// ---------------------------------------------------------------------------

// TranslateExport translates every language bundle in an Xcode export
// folder (one <lang>.xcloc directory per language). The source-language
// bundle is skipped, and languages narrows processing to the given codes.
// One bundle's failure does not abort the others; the returned map records
// per-language success.
func TranslateExport(ctx context.Context, backend Backend, exportPath string, languages []string, opts FileOptions) (map[string]bool, error) {
	log := opts.log()

	info, err := os.Stat(exportPath)
	if err != nil {
		return nil, fmt.Errorf("export folder not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", exportPath)
	}

	bundles, err := filepath.Glob(filepath.Join(exportPath, "*.xcloc"))
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return nil, fmt.Errorf("no .xcloc folders found in %s", exportPath)
	}
	sort.Strings(bundles)

	allow := make(map[string]bool, len(languages))
	for _, lang := range languages {
		allow[lang] = true
	}

	sourceLang := opts.effectiveSourceLang()
	results := make(map[string]bool)

	for _, bundle := range bundles {
		lang := strings.TrimSuffix(filepath.Base(bundle), ".xcloc")

		if strings.EqualFold(lang, sourceLang) {
			log.Infof("skipping source language bundle %s", bundle)
			continue
		}
		if len(allow) > 0 && !allow[lang] {
			log.Infof("skipping non-target language %s", lang)
			continue
		}

		xliffPath := filepath.Join(bundle, "Localized Contents", lang+".xliff")
		if _, err := os.Stat(xliffPath); err != nil {
			log.Errorf("XLIFF file not found for %s: %s", lang, xliffPath)
			results[lang] = false
			continue
		}

		log.Infof("processing %s translation: %s", lang, xliffPath)
		if err := TranslateFile(ctx, backend, xliffPath, lang, opts); err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			log.Errorf("failed to translate %s: %v", lang, err)
			results[lang] = false
			continue
		}
		results[lang] = true
	}

	return results, nil
}

// Summary partitions export results into successful and failed language
// lists, each sorted.
func Summary(results map[string]bool) (successful, failed []string) {
	for lang, ok := range results {
		if ok {
			successful = append(successful, lang)
		} else {
			failed = append(failed, lang)
		}
	}
	sort.Strings(successful)
	sort.Strings(failed)
	return successful, failed
}
