// Package search implements the interactive substring search over a catalog.
package search

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"

	"pricemachine/internal/catalog"
	"pricemachine/internal/config"
	"pricemachine/internal/formatter"
)

// Shell messages.
const (
	MsgNoData   = "Нет данных для поиска."
	MsgExit     = "Выход из программы."
	MsgResults  = "**Результаты поиска:**"
	msgNotFound = "Не найдено позиций с текстом '%s'."
)

// Shell reads search phrases from in and prints matching records to out.
type Shell struct {
	cat   *catalog.Catalog
	cfg   config.SearchConfig
	in    io.Reader
	out   io.Writer
	exits map[string]struct{}
	fold  cases.Caser
}

// NewShell creates a search shell over cat.
func NewShell(cat *catalog.Catalog, cfg config.SearchConfig, in io.Reader, out io.Writer) *Shell {
	s := &Shell{
		cat:   cat,
		cfg:   cfg,
		in:    in,
		out:   out,
		exits: make(map[string]struct{}, len(cfg.ExitPhrases)),
		fold:  cases.Fold(),
	}

	for _, phrase := range cfg.ExitPhrases {
		s.exits[s.fold.String(strings.TrimSpace(phrase))] = struct{}{}
	}

	return s
}

// IsExit reports whether input is one of the configured exit phrases,
// ignoring case and surrounding whitespace.
func (s *Shell) IsExit(input string) bool {
	_, ok := s.exits[s.fold.String(strings.TrimSpace(input))]

	return ok
}

// Run loops until an exit phrase or the end of input. An empty catalog
// prints a notice and returns immediately.
func (s *Shell) Run() error {
	if s.cat.IsEmpty() {
		_, err := fmt.Fprintln(s.out, MsgNoData)

		return err
	}

	scanner := bufio.NewScanner(s.in)

	for {
		if _, err := fmt.Fprint(s.out, s.cfg.Prompt); err != nil {
			return err
		}

		if !scanner.Scan() {
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		if s.IsExit(query) {
			_, err := fmt.Fprintln(s.out, MsgExit)

			return err
		}

		if err := s.Search(query); err != nil {
			return err
		}
	}
}

// Search prints the records whose names contain query, cheapest per kilogram first.
func (s *Shell) Search(query string) error {
	matches := s.cat.FilterBySubstring(query, true)
	if len(matches) == 0 {
		_, err := fmt.Fprintf(s.out, "\n"+msgNotFound+"\n", query)

		return err
	}

	rows := formatter.RecordRows(matches, s.cfg.MaxNameWidth)
	_, err := fmt.Fprintf(s.out, "\n%s\n%s\n", MsgResults, formatter.RenderGrid(formatter.RecordColumns, rows))

	return err
}
