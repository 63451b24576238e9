// Package metadata signs generated price reports with an HTML comment that
// records the report body's SHA-256, the number of records listed and when
// it was produced.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Block delimiters. The block is an HTML comment so it stays invisible in
// both HTML and rendered markdown reports.
const (
	TagStart = "<!-- METADATA_START"
	TagEnd   = "METADATA_END -->"
	Version  = "1"
)

// Verification errors.
var (
	ErrNoMetadataBlock = errors.New("report is not signed")
	ErrNoHashFound     = errors.New("signature has no hash")
	ErrHashMismatch    = errors.New("report body changed after signing")
)

// Metadata is the parsed content of a report's signature block.
type Metadata struct {
	GeneratedAt time.Time
	Version     string
	Hash        string
	Records     int
}

var blockPattern = regexp.MustCompile(`(?s)<!--\s*METADATA_START\s*\n(.*?)\n\s*METADATA_END\s*-->`)

// Extract splits a report into its signature and its body. The body has the
// block removed and trailing newlines trimmed; it is the text Sign hashes.
// Metadata is nil for an unsigned report.
func Extract(content string) (*Metadata, string) {
	body := strings.TrimRight(blockPattern.ReplaceAllString(content, ""), "\n")

	match := blockPattern.FindStringSubmatch(content)
	if match == nil {
		return nil, body
	}

	return parseBlock(match[1]), body
}

// parseBlock reads "KEY: value" lines. Unknown keys and unparsable values
// are ignored.
func parseBlock(block string) *Metadata {
	meta := &Metadata{}

	for line := range strings.SplitSeq(block, "\n") {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		val = strings.TrimSpace(val)

		switch strings.TrimSpace(key) {
		case "VERSION":
			meta.Version = val
		case "RECORDS":
			meta.Records, _ = strconv.Atoi(val)
		case "GENERATED_AT":
			meta.GeneratedAt, _ = time.Parse(time.RFC3339, val)
		case "HASH":
			meta.Hash = val
		}
	}

	return meta
}

// CalculateHash returns the hex SHA-256 of a report body, ignoring any
// signature block already present.
func CalculateHash(content string) string {
	_, body := Extract(content)
	sum := sha256.Sum256([]byte(body))

	return hex.EncodeToString(sum[:])
}

// Sign returns the report with a fresh signature block for a table of
// records rows. An older block is dropped first.
func Sign(content string, records int) string {
	_, body := Extract(content)

	var sb strings.Builder

	sb.WriteString(body)
	sb.WriteString("\n\n" + TagStart + "\n")
	fmt.Fprintf(&sb, "VERSION: %s\n", Version)
	fmt.Fprintf(&sb, "RECORDS: %d\n", records)
	fmt.Fprintf(&sb, "GENERATED_AT: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "HASH: %s\n", CalculateHash(body))
	sb.WriteString(TagEnd + "\n")

	return sb.String()
}

// Verify parses the signature of a decoded report and checks it against the
// body. The parsed metadata is returned whenever a block was found.
func Verify(content string) (*Metadata, error) {
	meta, body := Extract(content)

	switch {
	case meta == nil:
		return nil, ErrNoMetadataBlock
	case meta.Hash == "":
		return meta, ErrNoHashFound
	}

	if got := CalculateHash(body); got != meta.Hash {
		return meta, fmt.Errorf("%w: signed %s, body hashes to %s", ErrHashMismatch, meta.Hash, got)
	}

	return meta, nil
}
