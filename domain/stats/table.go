package stats

import (
	"fmt"
	"strings"

	"gpcorr/domain/core"
)

// ContingencyTable is the cross-tabulation of one phenotype classifier
// against one genotype classifier. Rows are phenotype classes, columns
// are genotype classes. Cells are non-negative counts of individuals
// assignable on both axes.
type ContingencyTable struct {
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
	Counts    [][]int  `json:"counts"`
}

// NewContingencyTable creates an empty table with the given class
// labels. Both axes need at least two classes.
func NewContingencyTable(rowLabels, colLabels []string) (*ContingencyTable, error) {
	if len(rowLabels) < 2 {
		return nil, core.ValidationError("need at least 2 phenotype classes, got %d", len(rowLabels))
	}
	if len(colLabels) < 2 {
		return nil, core.ValidationError("need at least 2 genotype classes, got %d", len(colLabels))
	}
	counts := make([][]int, len(rowLabels))
	for i := range counts {
		counts[i] = make([]int, len(colLabels))
	}
	return &ContingencyTable{
		RowLabels: append([]string(nil), rowLabels...),
		ColLabels: append([]string(nil), colLabels...),
		Counts:    counts,
	}, nil
}

// ClassPair is one individual's assignment on both axes.
type ClassPair struct {
	Row int
	Col int
}

// Tabulate counts class pairs into a fresh table. The result does not
// depend on pair order.
func Tabulate(rowLabels, colLabels []string, pairs []ClassPair) (*ContingencyTable, error) {
	table, err := NewContingencyTable(rowLabels, colLabels)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		if p.Row < 0 || p.Row >= len(rowLabels) || p.Col < 0 || p.Col >= len(colLabels) {
			return nil, core.ValidationError("class pair (%d, %d) out of range for %dx%d table",
				p.Row, p.Col, len(rowLabels), len(colLabels))
		}
		table.Counts[p.Row][p.Col]++
	}
	return table, nil
}

// Rows returns the number of phenotype classes.
func (t *ContingencyTable) Rows() int { return len(t.RowLabels) }

// Cols returns the number of genotype classes.
func (t *ContingencyTable) Cols() int { return len(t.ColLabels) }

// Count returns one cell.
func (t *ContingencyTable) Count(row, col int) int { return t.Counts[row][col] }

// RowTotal returns the marginal total of one phenotype class.
func (t *ContingencyTable) RowTotal(row int) int {
	total := 0
	for _, n := range t.Counts[row] {
		total += n
	}
	return total
}

// ColTotal returns the marginal total of one genotype class.
func (t *ContingencyTable) ColTotal(col int) int {
	total := 0
	for row := range t.Counts {
		total += t.Counts[row][col]
	}
	return total
}

// Total returns the grand total.
func (t *ContingencyTable) Total() int {
	total := 0
	for row := range t.Counts {
		for _, n := range t.Counts[row] {
			total += n
		}
	}
	return total
}

// IsDegenerate reports whether some row or column is entirely zero, in
// which case exact tests on the table are undefined.
func (t *ContingencyTable) IsDegenerate() bool {
	for row := range t.RowLabels {
		if t.RowTotal(row) == 0 {
			return true
		}
	}
	for col := range t.ColLabels {
		if t.ColTotal(col) == 0 {
			return true
		}
	}
	return false
}

// Transposed returns a new table with the axes swapped.
func (t *ContingencyTable) Transposed() *ContingencyTable {
	counts := make([][]int, len(t.ColLabels))
	for i := range counts {
		counts[i] = make([]int, len(t.RowLabels))
		for j := range counts[i] {
			counts[i][j] = t.Counts[j][i]
		}
	}
	return &ContingencyTable{
		RowLabels: append([]string(nil), t.ColLabels...),
		ColLabels: append([]string(nil), t.RowLabels...),
		Counts:    counts,
	}
}

// EqualCounts reports whether two tables have identical shape and
// cell counts, ignoring labels. The redundant-term heuristic compares
// parent and child tables this way.
func (t *ContingencyTable) EqualCounts(other *ContingencyTable) bool {
	if other == nil || t.Rows() != other.Rows() || t.Cols() != other.Cols() {
		return false
	}
	for row := range t.Counts {
		for col := range t.Counts[row] {
			if t.Counts[row][col] != other.Counts[row][col] {
				return false
			}
		}
	}
	return true
}

func (t *ContingencyTable) String() string {
	var b strings.Builder
	for row := range t.Counts {
		if row > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s=%v", t.RowLabels[row], t.Counts[row])
	}
	return b.String()
}
