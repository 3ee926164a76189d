package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrBadGridFile = errors.New("malformed grid file")

// LoadGridFile loads an occupancy grid from a text file.
//
// One row per line: '.' or '0' is free, '#' or '1' is blocked. Blank lines
// and lines starting with ';' are ignored. Any other character is rejected.
func LoadGridFile(path string) (*GridMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer f.Close()

	grid, err := ParseGrid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	log.Printf("   ✅ Loaded %dx%d grid (%d blocked cells) from %s\n",
		grid.Height(), grid.Width(), grid.BlockedCount(), filepath.Base(path))
	return grid, nil
}

// ParseGrid reads the text grid format from r
func ParseGrid(r io.Reader) (*GridMap, error) {
	var rows [][]Occupancy

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		// Columns count runes of the untrimmed line
		col := utf8.RuneCountInString(raw[:len(raw)-len(strings.TrimLeftFunc(raw, unicode.IsSpace))])
		row := make([]Occupancy, 0, len(line))
		for _, ch := range line {
			col++
			switch ch {
			case '.', '0':
				row = append(row, Free)
			case '#', '1':
				row = append(row, Blocked)
			default:
				return nil, fmt.Errorf("%w: line %d col %d: unexpected %q", ErrBadGridFile, lineNo, col, ch)
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}

	grid, err := NewGridMap(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadGridFile, err)
	}
	return grid, nil
}

// FormatGrid renders a grid in the text format accepted by ParseGrid
func FormatGrid(grid *GridMap) string {
	var sb strings.Builder
	sb.Grow(grid.Height() * (grid.Width() + 1))
	for r := 0; r < grid.Height(); r++ {
		for c := 0; c < grid.Width(); c++ {
			if grid.IsBlocked(Cell{Row: r, Col: c}) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
