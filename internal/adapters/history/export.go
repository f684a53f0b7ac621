package history

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/xvierd/fast-cli/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format is an export file format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
)

const (
	exportFileMode   = 0o644
	tempFilePattern  = ".fast-export-*.tmp"
	markdownDateTime = "2006-01-02 15:04"
)

// Formats lists the supported export formats.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatCSV, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat accepts a format name or a common alias such as "markdown".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown", "":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown export format %q (use md, csv, json, yaml, or toml)", s)
}

// Write renders records to w in the given format.
func Write(w io.Writer, format Format, records []*domain.SessionRecord, generatedAt time.Time) error {
	switch format {
	case FormatMarkdown:
		return writeMarkdown(w, records, generatedAt)
	case FormatCSV:
		return writeCSV(w, records)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(toSchema(records, generatedAt)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toSchema(records, generatedAt)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		data, err := toml.Marshal(toSchema(records, generatedAt))
		if err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown export format %q", format)
}

// WriteFile renders records to path, replacing it atomically.
func WriteFile(path string, format Format, records []*domain.SessionRecord, generatedAt time.Time) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp export file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if err := Write(tempFile, format, records, generatedAt); err != nil {
		_ = tempFile.Close()
		return err
	}
	if err := tempFile.Chmod(exportFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp export file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp export file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace export file: %w", err)
	}

	cleanup = false
	return nil
}

func writeMarkdown(w io.Writer, records []*domain.SessionRecord, generatedAt time.Time) error {
	var b strings.Builder
	b.WriteString("# Fast History Export\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format(markdownDateTime))

	if len(records) == 0 {
		b.WriteString("No fasts recorded.\n")
	}

	for _, r := range records {
		fmt.Fprintf(&b, "## %s · %s\n", r.Date, r.ProtocolName)
		fmt.Fprintf(&b, "- Duration: %s\n", domain.FormatHoursMinutes(r.DurationSeconds))
		fmt.Fprintf(&b, "- Status: %s\n", r.StatusLabel())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCSV(w io.Writer, records []*domain.SessionRecord) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{"date", "protocol", "duration_seconds", "duration", "completed"})
	for _, r := range records {
		_ = cw.Write([]string{
			r.Date,
			r.ProtocolName,
			strconv.Itoa(r.DurationSeconds),
			domain.FormatHoursMinutes(r.DurationSeconds),
			strconv.FormatBool(r.Completed),
		})
	}

	cw.Flush()
	return cw.Error()
}
