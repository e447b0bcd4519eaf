package sentiment

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// InputParseOptions chooses which CSV columns map to record fields. Values are
// header names or 1-based "#N" indices; empty means auto-detect.
type InputParseOptions struct {
	IndexColumn string
	TitleColumn string
	TextColumn  string
}

// InputRecord is one review read from an input file. Text is what gets
// classified: the title and body joined by a newline.
type InputRecord struct {
	Index string `json:"index,omitempty"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Text  string `json:"text"`
}

// ParseInputRecords reads reviews from a .txt (one per line), .csv or .tsv file.
func ParseInputRecords(path string, opts InputParseOptions) ([]InputRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseDelimitedRecords(path, ',', opts)
	case ".tsv":
		return parseDelimitedRecords(path, '\t', opts)
	default:
		return parsePlainTextRecords(path)
	}
}

// ParseInputTexts reads texts one per line from r, skipping blank lines.
func ParseInputTexts(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := cleanCell(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return out, nil
}

func parsePlainTextRecords(path string) ([]InputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open text file: %w", err)
	}
	defer f.Close()
	texts, err := ParseInputTexts(f)
	if err != nil {
		return nil, err
	}
	out := make([]InputRecord, len(texts))
	for i, text := range texts {
		out[i] = InputRecord{Index: strconv.Itoa(i + 1), Body: text, Text: text}
	}
	return out, nil
}

func parseDelimitedRecords(path string, comma rune, opts InputParseOptions) ([]InputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	resolved, skipHeader, err := resolveInputColumns(header, opts)
	if err != nil {
		return nil, err
	}
	start := 0
	if skipHeader {
		start = 1
	}
	records := make([]InputRecord, 0, len(rows)-start)
	for n, row := range rows[start:] {
		rec := InputRecord{
			Index: cellAt(row, resolved.Index),
			Title: cellAt(row, resolved.Title),
			Body:  cellAt(row, resolved.Text),
		}
		rec.Text = combineParts(rec.Title, rec.Body)
		if rec.Text == "" {
			continue
		}
		if rec.Index == "" {
			rec.Index = strconv.Itoa(start + n + 1)
		}
		records = append(records, rec)
	}
	return records, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func combineParts(title, body string) string {
	var parts []string
	if title != "" {
		parts = append(parts, title)
	}
	if body != "" && body != title {
		parts = append(parts, body)
	}
	return strings.Join(parts, "\n")
}

type resolvedColumns struct {
	Index int
	Title int
	Text  int
}

func resolveInputColumns(header []string, opts InputParseOptions) (resolvedColumns, bool, error) {
	res := resolvedColumns{Index: -1, Title: -1, Text: -1}
	candidates := getColumnCandidates()
	var (
		fromHeader bool
		anyHeader  bool
		err        error
	)
	if res.Index, fromHeader, err = pickColumn(header, opts.IndexColumn, candidates.Index); err != nil {
		return res, false, err
	}
	anyHeader = anyHeader || fromHeader
	if res.Title, fromHeader, err = pickColumn(header, opts.TitleColumn, candidates.Title); err != nil {
		return res, false, err
	}
	anyHeader = anyHeader || fromHeader
	if res.Text, fromHeader, err = pickColumn(header, opts.TextColumn, candidates.Text); err != nil {
		return res, false, err
	}
	anyHeader = anyHeader || fromHeader
	if res.Text < 0 {
		if anyHeader {
			return res, false, errors.New("no review text column found")
		}
		// Headerless files carry the review in the last column.
		res.Text = len(header) - 1
	}
	return res, anyHeader, nil
}

func pickColumn(header []string, explicit string, candidates []string) (int, bool, error) {
	if strings.TrimSpace(explicit) != "" {
		return matchExplicitColumn(header, explicit)
	}
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i, true, nil
			}
		}
	}
	return -1, false, nil
}

func matchExplicitColumn(header []string, explicit string) (int, bool, error) {
	trimmed := strings.TrimSpace(explicit)
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, true, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
		if err != nil {
			return -1, false, fmt.Errorf("invalid column index %q", explicit)
		}
		if idx <= 0 {
			return -1, false, fmt.Errorf("column indices are 1-based: %q", explicit)
		}
		if idx > len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx - 1, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}
