package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pricemachine/pkg/metadata"
)

func writePriceDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"price_1.csv": "товар,розница,масса\nМолоко,80,1\nСахар,50,0\n",
		"price_2.csv": "наименование,цена,вес\nМука,40,2\n",
		"price_3.csv": "a,b,c\n1,2,3\n",
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	return dir
}

func TestRun_WritesReport(t *testing.T) {
	dir := writePriceDir(t)
	reportPath := filepath.Join(t.TempDir(), "output.md")

	var stdout, stderr bytes.Buffer

	code := run([]string{"-dir", dir, "-report", reportPath, "-format", "markdown", "-encoding", "utf-8", "-no-search"},
		strings.NewReader(""), &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d\nstdout:\n%s\nstderr:\n%s", code, exitOK, stdout.String(), stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{"Files scanned: 3", "Files loaded:  2", "Files skipped: 1", "Records:       3", "price_3.csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}

	if !strings.Contains(stderr.String(), "run_id=") || !strings.Contains(stderr.String(), "file=price_3.csv") {
		t.Errorf("expected a warning with run_id and file attributes, got:\n%s", stderr.String())
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}

	doc := string(data)
	sugar := strings.Index(doc, "Сахар")
	flour := strings.Index(doc, "Мука")
	milk := strings.Index(doc, "Молоко")

	if sugar < 0 || flour < 0 || milk < 0 || sugar > flour || flour > milk {
		t.Errorf("report rows should be sorted by unit price:\n%s", doc)
	}

	if _, err := metadata.Verify(doc); err != nil {
		t.Errorf("report signature should verify: %v", err)
	}
}

func TestRun_Search(t *testing.T) {
	dir := writePriceDir(t)

	var stdout, stderr bytes.Buffer

	code := run([]string{"-dir", dir, "-no-report"}, strings.NewReader("МОЛ\nвыход\n"), &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d\n%s", code, exitOK, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "| Молоко ") || strings.Contains(out, "| Мука ") {
		t.Errorf("search output should list only Молоко:\n%s", out)
	}

	if !strings.Contains(out, "Выход из программы.") {
		t.Errorf("expected exit message:\n%s", out)
	}
}

func TestRun_EmptyCatalog(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-dir", filepath.Join(t.TempDir(), "missing"), "-no-report"}, strings.NewReader(""), &stdout, &stderr)
	if code != exitEmptyCatalog {
		t.Fatalf("exit code = %d, want %d", code, exitEmptyCatalog)
	}

	if !strings.Contains(stdout.String(), "Нет данных для поиска.") {
		t.Errorf("expected no-data notice:\n%s", stdout.String())
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := writePriceDir(t)
	reportPath := filepath.Join(t.TempDir(), "report.html")

	configPath := filepath.Join(t.TempDir(), "pricemachine.yaml")
	content := "ingest:\n  dir: \"" + filepath.ToSlash(dir) + "\"\n  match_by: extensionOnly\nreport:\n  path: \"" +
		filepath.ToSlash(reportPath) + "\"\nsearch:\n  enabled: false\n"

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer

	if code := run([]string{"-config", configPath}, strings.NewReader(""), &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code = %d, want %d\n%s", code, exitOK, stderr.String())
	}

	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("report from config path not written: %v", err)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"bad match-by", []string{"-match-by", "glob"}},
		{"bad format", []string{"-format", "pdf"}},
		{"bad encoding", []string{"-encoding", "klingon-8"}},
		{"missing config", []string{"-config", "/nonexistent/pricemachine.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			if code := run(tt.args, strings.NewReader(""), &stdout, &stderr); code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}
		})
	}
}
