// Package main provides the price machine command: it loads price lists from
// a directory, writes a report sorted by price per kilogram and opens an
// interactive search over the merged catalog.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"pricemachine/internal/catalog"
	"pricemachine/internal/config"
	"pricemachine/internal/ingest"
	"pricemachine/internal/logger"
	"pricemachine/internal/report"
	"pricemachine/internal/search"
)

// Exit codes.
const (
	exitOK           = 0
	exitEmptyCatalog = 1
	exitUsage        = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	dir        string
	matchBy    string
	reportPath string
	format     string
	encoding   string
	logLevel   string
	noReport   bool
	noSearch   bool
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	fs := flag.NewFlagSet("pricemachine", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Path to YAML config (default "+config.DefaultPath+" if present)")
	fs.StringVar(&opts.dir, "dir", "", "Directory with price lists")
	fs.StringVar(&opts.matchBy, "match-by", "", "File discovery policy: substringInName or extensionOnly")
	fs.StringVar(&opts.reportPath, "report", "", "Report output path")
	fs.StringVar(&opts.format, "format", "", "Report format: html or markdown")
	fs.StringVar(&opts.encoding, "encoding", "", "Report encoding (e.g. windows-1251, utf-8)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&opts.noReport, "no-report", false, "Skip writing the report")
	fs.BoolVar(&opts.noSearch, "no-search", false, "Skip the interactive search")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	return opts, set, nil
}

// loadConfig reads the config file named by -config, or the default file
// when it exists, and applies flag overrides on top.
func loadConfig(opts *options, set map[string]bool) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path := opts.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		}
	}

	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if set["dir"] {
		cfg.Ingest.Dir = opts.dir
	}

	if set["match-by"] {
		cfg.Ingest.MatchBy = opts.matchBy
	}

	if set["report"] {
		cfg.Report.Path = opts.reportPath
	}

	if set["format"] {
		cfg.Report.Format = opts.format
	}

	if set["encoding"] {
		cfg.Report.Encoding = opts.encoding
	}

	if set["log-level"] {
		cfg.Logging.Level = opts.logLevel
	}

	if opts.noReport {
		cfg.Report.Enabled = false
	}

	if opts.noSearch {
		cfg.Search.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	cfg, err := loadConfig(opts, set)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Configuration error: %v\n", err)
		return exitUsage
	}

	log := logger.NewLoggerTo(stderr, cfg.Logging.Level).With("run_id", uuid.NewString())
	log.Debug("configuration loaded", "config", cfg.String())

	// 1. Ingestion
	fmt.Fprintf(stdout, "📂 Scanning: %s (%s)\n", cfg.Ingest.Dir, cfg.Ingest.MatchBy)

	cat := catalog.New()

	result, err := ingest.New(cfg.Ingest, log).Load(cfg.Ingest.Dir, cat)
	if err != nil {
		log.Warn("price directory unavailable", "dir", cfg.Ingest.Dir, "error", err)
		fmt.Fprintf(stdout, "⚠️  Папка '%s' не существует или не является директорией!\n", cfg.Ingest.Dir)
	}

	printSummary(stdout, result)

	cat.SortByUnitPrice()

	// 2. Report
	if cfg.Report.Enabled {
		path, err := report.New(cfg.Report).WriteFile(cat.Records())
		if err != nil {
			log.Error("report failed", "path", cfg.Report.Path, "error", err)
			fmt.Fprintf(stdout, "❌ Report failed: %v\n", err)
		} else {
			fmt.Fprintf(stdout, "✅ Отчёт %s успешно создан!\n", path)
		}
	}

	// 3. Search
	if cfg.Search.Enabled {
		if cat.IsEmpty() {
			fmt.Fprintln(stdout, "\nДанные не найдены. Проверьте папку или содержимое файлов.")
		} else {
			fmt.Fprintln(stdout, "\nДанные успешно загружены. Вы можете выполнить поиск.")
		}

		if err := search.NewShell(cat, cfg.Search, stdin, stdout).Run(); err != nil {
			log.Error("search input failed", "error", err)
		}
	}

	if cat.IsEmpty() {
		return exitEmptyCatalog
	}

	return exitOK
}

func printSummary(w io.Writer, result *ingest.Result) {
	fmt.Fprintln(w, "------------------------------------------------")
	fmt.Fprintln(w, "📊 Load Summary")
	fmt.Fprintln(w, "------------------------------------------------")
	fmt.Fprintf(w, "Files scanned: %d\n", len(result.Files))
	fmt.Fprintf(w, "Files loaded:  %d\n", result.FilesLoaded)
	fmt.Fprintf(w, "Files skipped: %d\n", len(result.Skipped))

	for _, skip := range result.Skipped {
		fmt.Fprintf(w, "  ⚠️  %s: %v\n", skip.File, skip.Err)
	}

	fmt.Fprintf(w, "Rows skipped:  %d\n", result.RowsSkipped)
	fmt.Fprintf(w, "Records:       %d\n", result.Records)
}
