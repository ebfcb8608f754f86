package product

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseLine parses one input-file row: a semicolon-separated URL list,
// optionally followed by a tab and the product title. With no tab present
// the whole line is treated as URLs and a synthetic title product-NNN is
// assigned from the 1-based row index.
func ParseLine(line string, idx int) Row {
	urlsPart := line
	title := fmt.Sprintf("product-%03d", idx)

	if before, after, found := strings.Cut(line, "\t"); found {
		urlsPart = before
		title = after
	}

	var urls []string
	for _, u := range strings.Split(urlsPart, ";") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	return Row{
		Title:     title,
		ImageURLs: urls,
		Fields:    map[string]string{ColumnTitle: title},
	}
}

// ReadFile reads product rows from a UTF-8 text file, one row per line.
// Blank lines are ignored; row indices for synthetic titles count only
// non-blank lines.
func ReadFile(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer file.Close()

	var rows []Row
	idx := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		idx++
		rows = append(rows, ParseLine(line, idx))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	return rows, nil
}
