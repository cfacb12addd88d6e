package extract

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"docverify/internal/blocks"
)

// Table detection for the digital path works from glyph positions in the
// text layer. Glyphs are merged into words, words are grouped into
// baseline rows, and rows whose word starts align vertically across
// several rows are treated as table rows. The result feeds the same grid
// type the OCR path produces, so both paths share markdown rendering.

const (
	rowTolerance    = 3.0 // max baseline Y delta within one row, points
	columnTolerance = 8.0 // max X delta for word starts in one column
	minTableRows    = 2   // rows a column set must cover to count as a table
	minTableColumns = 2
	minColumnHits   = 3 // aligned word starts a column needs
)

type word struct {
	text string
	x    float64
	y    float64
}

type layoutRow struct {
	y     float64
	words []word
}

// detectTables finds aligned-column tables in one page's glyphs and
// returns them as grids. Pages without enough alignment yield nil.
func detectTables(texts []pdf.Text) []blocks.TableGrid {
	rows := groupRows(mergeWords(texts))
	if len(rows) < minTableRows {
		return nil
	}

	columns := alignedColumns(rows)
	if len(columns) < minTableColumns {
		return nil
	}

	// A table row has words in at least two of the detected columns.
	// Consecutive runs of such rows become separate tables.
	var grids []blocks.TableGrid
	var run []layoutRow
	flush := func() {
		if len(run) >= minTableRows {
			if grid := blocks.CleanGrid(buildLayoutGrid(run, columns)); grid != nil {
				grids = append(grids, grid)
			}
		}
		run = nil
	}

	for _, row := range rows {
		if columnHits(row, columns) >= minTableColumns {
			run = append(run, row)
		} else {
			flush()
		}
	}
	flush()

	return grids
}

// mergeWords joins adjacent glyphs into words. Glyphs on the same
// baseline separated by less than a glyph width of space belong to the
// same word. The glyph stream is sorted into reading order first since
// content streams carry no ordering guarantee.
func mergeWords(texts []pdf.Text) []word {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var words []word
	var current *word
	var lastEnd float64

	for _, t := range sorted {
		if t.S == "" {
			continue
		}
		gap := maxGap(t.FontSize)
		if current != nil && sameBaseline(current.y, t.Y) && t.X-lastEnd <= gap {
			current.text += t.S
		} else {
			if current != nil && strings.TrimSpace(current.text) != "" {
				words = append(words, *current)
			}
			current = &word{text: t.S, x: t.X, y: t.Y}
		}
		lastEnd = t.X + t.W
	}
	if current != nil && strings.TrimSpace(current.text) != "" {
		words = append(words, *current)
	}

	for i := range words {
		words[i].text = strings.TrimSpace(words[i].text)
	}
	return words
}

func maxGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 3.0
	}
	return fontSize * 0.3
}

func sameBaseline(a, b float64) bool {
	d := a - b
	return d < rowTolerance && d > -rowTolerance
}

// groupRows buckets words into baseline rows, top of page first, words
// left to right within a row.
func groupRows(words []word) []layoutRow {
	var rows []layoutRow
	for _, w := range words {
		placed := false
		for i := range rows {
			if sameBaseline(rows[i].y, w.y) {
				rows[i].words = append(rows[i].words, w)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, layoutRow{y: w.y, words: []word{w}})
		}
	}

	// PDF Y grows upward.
	sort.Slice(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for i := range rows {
		ws := rows[i].words
		sort.Slice(ws, func(a, b int) bool { return ws[a].x < ws[b].x })
	}
	return rows
}

// alignedColumns finds X positions where word starts from enough distinct
// rows line up, returned left to right.
func alignedColumns(rows []layoutRow) []float64 {
	type bucket struct {
		x    float64
		hits int
	}
	var buckets []bucket

	for _, row := range rows {
		for _, w := range row.words {
			placed := false
			for i := range buckets {
				d := buckets[i].x - w.x
				if d < columnTolerance && d > -columnTolerance {
					buckets[i].hits++
					placed = true
					break
				}
			}
			if !placed {
				buckets = append(buckets, bucket{x: w.x, hits: 1})
			}
		}
	}

	var columns []float64
	for _, b := range buckets {
		if b.hits >= minColumnHits {
			columns = append(columns, b.x)
		}
	}
	sort.Float64s(columns)
	return columns
}

// columnHits counts how many distinct columns a row has words in.
func columnHits(row layoutRow, columns []float64) int {
	seen := make(map[int]bool)
	for _, w := range row.words {
		if c := nearestColumn(w.x, columns); c >= 0 {
			seen[c] = true
		}
	}
	return len(seen)
}

// nearestColumn returns the index of the closest column within tolerance,
// or -1 when the word start lines up with no column.
func nearestColumn(x float64, columns []float64) int {
	best := -1
	bestDist := columnTolerance
	for i, c := range columns {
		d := x - c
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// buildLayoutGrid assigns each row's words to column cells. Words that
// align with no column extend the cell to their left.
func buildLayoutGrid(rows []layoutRow, columns []float64) blocks.TableGrid {
	grid := make(blocks.TableGrid, len(rows))
	for r, row := range rows {
		cells := make([]string, len(columns))
		for _, w := range row.words {
			c := nearestColumn(w.x, columns)
			if c < 0 {
				c = lastColumnBefore(w.x, columns)
			}
			if cells[c] == "" {
				cells[c] = w.text
			} else {
				cells[c] += " " + w.text
			}
		}
		grid[r] = cells
	}
	return grid
}

// lastColumnBefore returns the rightmost column starting at or before x,
// defaulting to the first column.
func lastColumnBefore(x float64, columns []float64) int {
	c := 0
	for i, col := range columns {
		if col <= x {
			c = i
		}
	}
	return c
}
