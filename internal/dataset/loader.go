package dataset

import "fmt"

// JoinKey is the column shared by visit and patient records.
const JoinKey = "patient_id"

// LeftJoin keeps every row of left and appends the non-key columns of right.
// Left rows without a match get missing cells; a left row matching several
// right rows yields one output row per match, in right order. Column names
// present on both sides are suffixed with "_x"/"_y".
func LeftJoin(left, right *Frame, key string) (*Frame, error) {
	lk, ok := left.ColumnIndex(key)
	if !ok {
		return nil, fmt.Errorf("left frame: %w", ColumnNotFoundError{Column: key})
	}
	rk, ok := right.ColumnIndex(key)
	if !ok {
		return nil, fmt.Errorf("right frame: %w", ColumnNotFoundError{Column: key})
	}

	var rightCols []int
	for j := range right.Columns {
		if j != rk {
			rightCols = append(rightCols, j)
		}
	}

	columns := make([]string, 0, len(left.Columns)+len(rightCols))
	for j, c := range left.Columns {
		if j != lk && right.Has(c) {
			c += "_x"
		}
		columns = append(columns, c)
	}
	for _, j := range rightCols {
		c := right.Columns[j]
		if left.Has(c) {
			c += "_y"
		}
		columns = append(columns, c)
	}

	lookup := make(map[string][][]string, len(right.Rows))
	for _, r := range right.Rows {
		lookup[r[rk]] = append(lookup[r[rk]], r)
	}

	rows := make([][]string, 0, len(left.Rows))
	for _, l := range left.Rows {
		matches := lookup[l[lk]]
		if len(matches) == 0 {
			matches = [][]string{nil}
		}
		for _, match := range matches {
			row := make([]string, 0, len(columns))
			row = append(row, l...)
			for _, j := range rightCols {
				if match != nil {
					row = append(row, match[j])
				} else {
					row = append(row, "")
				}
			}
			rows = append(rows, row)
		}
	}
	return NewFrame(columns, rows)
}

// LoadData reads the visit and patient CSVs, left-joins them on patient_id
// and drops rows with a missing target.
func LoadData(visitsPath, patientsPath, target string) (*Frame, error) {
	visits, err := ReadCSV(visitsPath)
	if err != nil {
		return nil, fmt.Errorf("load visits: %w", err)
	}
	patients, err := ReadCSV(patientsPath)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	merged, err := LeftJoin(visits, patients, JoinKey)
	if err != nil {
		return nil, fmt.Errorf("merge on %s: %w", JoinKey, err)
	}
	out, err := DropMissing(merged, target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return out, nil
}

// Labels returns the target column of f.
func Labels(f *Frame, target string) ([]string, error) {
	return f.Column(target)
}
