// Package ingest discovers price-list files and feeds them through the normalizer.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"pricemachine/internal/catalog"
	"pricemachine/internal/config"
	"pricemachine/internal/logger"
	"pricemachine/internal/models"
	"pricemachine/internal/normalizer"
)

// Ingestion errors.
var (
	ErrDirectoryNotFound = errors.New("price directory not found")
	ErrFileRead          = errors.New("cannot read price file")
	ErrEmptyFile         = errors.New("file has no header row")
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Skip records a file that contributed no records.
type Skip struct {
	Err  error
	File string
}

// Result summarizes one ingestion pass.
type Result struct {
	Files       []string
	Skipped     []Skip
	FilesLoaded int
	RowsSkipped int
	Records     int
}

// Ingestor reads candidate files from a directory into a catalog.
type Ingestor struct {
	cfg       config.IngestConfig
	processor *normalizer.Processor
	log       *logger.Logger
}

// New creates an ingestor for the given settings.
func New(cfg config.IngestConfig, log *logger.Logger) *Ingestor {
	if log == nil {
		log = logger.Discard()
	}

	return &Ingestor{
		cfg:       cfg,
		processor: normalizer.NewProcessor(),
		log:       log,
	}
}

// Matches reports whether a file name is a candidate under the configured policy.
func (i *Ingestor) Matches(name string) bool {
	if !strings.EqualFold(filepath.Ext(name), i.cfg.Extension) {
		return false
	}

	if i.cfg.MatchBy == config.MatchByExtensionOnly {
		return true
	}

	return strings.Contains(name, i.cfg.NameSubstring)
}

// Discover lists candidate files in dir, sorted by name.
func (i *Ingestor) Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryNotFound, dir, err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() || !i.Matches(entry.Name()) {
			continue
		}

		files = append(files, filepath.Join(dir, entry.Name()))
	}

	return files, nil
}

// ReadTable parses one file into a raw table. Lines that fail to parse are
// recorded in RowErrors and skipped; the rest of the file is still read.
func (i *Ingestor) ReadTable(path string) (*models.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}

	text, err := i.decode(bytes.TrimPrefix(data, utf8BOM))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileRead, path, err)
	}

	reader := i.newReader(text)
	table := &models.RawTable{Source: filepath.Base(path)}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileRead, path, ErrEmptyFile)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: header: %w", ErrFileRead, path, err)
	}

	table.Headers = header

	starts := lineStarts(text)
	base := 0 // lines consumed before the current reader started

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			line := base + parseErr.StartLine
			table.RowErrors = append(table.RowErrors, models.RowError{Line: line, Err: parseErr.Err})

			// An unbalanced quote swallows the following lines into one
			// field. Resume on the line after the one that opened it.
			if errors.Is(parseErr.Err, csv.ErrQuote) && parseErr.Line > parseErr.StartLine {
				if line >= len(starts) {
					break
				}

				base = line
				reader = i.newReader(text[starts[line]:])
			}

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileRead, path, err)
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func (i *Ingestor) newReader(text string) *csv.Reader {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = i.cfg.DelimiterRune()
	reader.FieldsPerRecord = -1

	return reader
}

// lineStarts returns the byte offset of every physical line; starts[n] is
// where line n+1 begins.
func lineStarts(text string) []int {
	starts := []int{0}

	for pos, r := range text {
		if r == '\n' && pos+1 < len(text) {
			starts = append(starts, pos+1)
		}
	}

	return starts
}

// decode converts file bytes to UTF-8 text.
func (i *Ingestor) decode(data []byte) (string, error) {
	dec, err := i.decoderFor(data)
	if err != nil {
		return "", err
	}

	if dec == nil {
		return string(data), nil
	}

	out, _, err := transform.Bytes(dec.NewDecoder(), data)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// decoderFor picks the text encoding of a file. Nil means the bytes are UTF-8.
func (i *Ingestor) decoderFor(data []byte) (encoding.Encoding, error) {
	if i.cfg.Encoding != "" {
		return htmlindex.Get(i.cfg.Encoding)
	}

	if utf8.Valid(data) {
		return nil, nil
	}

	if i.cfg.FallbackEncoding == "" {
		return charmap.Windows1251, nil
	}

	return htmlindex.Get(i.cfg.FallbackEncoding)
}

// Load ingests every candidate file in dir into cat. Only a missing directory
// is returned as an error; per-file and per-row failures are logged and
// reported in the result.
func (i *Ingestor) Load(dir string, cat *catalog.Catalog) (*Result, error) {
	result := &Result{}

	files, err := i.Discover(dir)
	if err != nil {
		return result, err
	}

	result.Files = files
	i.log.Debug("discovered price files", "dir", dir, "count", len(files), "match_by", i.cfg.MatchBy)

	for _, path := range files {
		n, err := i.loadFile(path, cat, result)
		if err != nil {
			i.log.Warn("skipping file", "file", filepath.Base(path), "error", err)
			result.Skipped = append(result.Skipped, Skip{File: filepath.Base(path), Err: err})

			continue
		}

		result.FilesLoaded++
		result.Records += n
	}

	return result, nil
}

func (i *Ingestor) loadFile(path string, cat *catalog.Catalog, result *Result) (int, error) {
	table, err := i.ReadTable(path)
	if err != nil {
		return 0, err
	}

	for _, rowErr := range table.RowErrors {
		i.log.Warn("skipping malformed row", "file", table.Source, "line", rowErr.Line, "error", rowErr.Err)
	}

	result.RowsSkipped += len(table.RowErrors)

	records, err := i.processor.Normalize(table)
	if err != nil {
		return 0, err
	}

	cat.Append(records...)
	i.log.Debug("loaded price file", "file", table.Source, "records", len(records))

	return len(records), nil
}
