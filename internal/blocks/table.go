package blocks

import "strings"

// TableGrid is a 2D reconstruction of tabular cell text, indexed
// [row][col] with 0-based indices. Grids are exactly bounding: they are
// sized to the maximum observed RowIndex/ColumnIndex of the cells.
type TableGrid [][]string

// textFromChildren resolves a block's text as the space-joined text of
// its WORD and LINE children, trimmed.
func textFromChildren(b Block, idx Index) string {
	var sb strings.Builder
	for _, id := range b.relations(RelationChild) {
		child, ok := idx[id]
		if !ok {
			continue
		}
		if child.Type == TypeWord || child.Type == TypeLine {
			sb.WriteString(child.Text)
			sb.WriteString(" ")
		}
	}
	return strings.TrimSpace(sb.String())
}

// BuildGrid reconstructs the grid for one TABLE block by walking its
// CHILD edges to CELL blocks and placing each cell's resolved text at
// [RowIndex-1][ColumnIndex-1]. A table with no resolvable cells yields a
// nil grid (skipped, not an empty grid).
func BuildGrid(table Block, idx Index) TableGrid {
	type cell struct {
		row, col int
		text     string
	}

	var cells []cell
	for _, id := range table.relations(RelationChild) {
		cb, ok := idx[id]
		if !ok || cb.Type != TypeCell {
			continue
		}
		cells = append(cells, cell{row: cb.RowIndex, col: cb.ColumnIndex, text: textFromChildren(cb, idx)})
	}
	if len(cells) == 0 {
		return nil
	}

	maxRow, maxCol := 0, 0
	for _, c := range cells {
		if c.row > maxRow {
			maxRow = c.row
		}
		if c.col > maxCol {
			maxCol = c.col
		}
	}

	grid := make(TableGrid, maxRow)
	for r := range grid {
		grid[r] = make([]string, maxCol)
	}
	for _, c := range cells {
		if c.row >= 1 && c.row <= maxRow && c.col >= 1 && c.col <= maxCol {
			grid[c.row-1][c.col-1] = c.text
		}
	}
	return grid
}

// CleanGrid prunes rows where every cell is empty or whitespace, then
// columns where every remaining cell is empty or whitespace. Cleaning an
// entirely empty grid returns nil.
func CleanGrid(grid TableGrid) TableGrid {
	if len(grid) == 0 {
		return nil
	}

	var rows TableGrid
	for _, row := range grid {
		if rowHasContent(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	// Columns are checked after row pruning, via transpose.
	transposed := transpose(rows)
	var cols TableGrid
	for _, col := range transposed {
		if rowHasContent(col) {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return nil
	}
	return transpose(cols)
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

func transpose(grid TableGrid) TableGrid {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil
	}
	out := make(TableGrid, len(grid[0]))
	for c := range out {
		out[c] = make([]string, len(grid))
		for r := range grid {
			out[c][r] = grid[r][c]
		}
	}
	return out
}

// ToMarkdown renders a grid as a markdown table: header row, separator
// row, body rows. The grid is cleaned first; an entirely empty table
// renders as the empty string.
func ToMarkdown(grid TableGrid) string {
	cleaned := CleanGrid(grid)
	if len(cleaned) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(cleaned[0], " | ") + " |\n")
	seps := make([]string, len(cleaned[0]))
	for i := range seps {
		seps[i] = "---"
	}
	sb.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range cleaned[1:] {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
