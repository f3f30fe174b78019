// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package export flattens task predictions into rows for tabular submission
// files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Tuple is a multi-component label. Each component becomes its own row.
type Tuple []any

// Row is one line of a submission file. Weight is nil when no weight was
// given for the task.
type Row struct {
	ID     string `json:"id"`
	Value  any    `json:"value"`
	Weight any    `json:"weight,omitempty"`
}

// ConvertLabels produces one row per scalar label, in input order.
//
// A [Tuple] label of task "pos" yields rows "pos_0", "pos_1", ... . When
// weights is non-nil each row carries the weight of its task verbatim; a nil
// weights slice or a nil entry adds no weight. Inputs of unequal length are
// truncated to the shortest one.
func ConvertLabels(tasks []string, labels []any, weights []any) []Row {
	n := min(len(tasks), len(labels))
	if weights != nil {
		n = min(n, len(weights))
	}

	rows := make([]Row, 0, n)
	for i := range n {
		var w any
		if weights != nil {
			w = weights[i]
		}

		tuple, ok := labels[i].(Tuple)
		if !ok {
			rows = append(rows, Row{ID: tasks[i], Value: labels[i], Weight: w})
			continue
		}
		for j, v := range tuple {
			rows = append(rows, Row{ID: tasks[i] + "_" + strconv.Itoa(j), Value: v, Weight: w})
		}
	}
	return rows
}

// WriteCSV writes rows with an "id,value" header, plus a "weight" column when
// any row has a weight.
func WriteCSV(w io.Writer, rows []Row) error {
	weighted := false
	for _, r := range rows {
		if r.Weight != nil {
			weighted = true
			break
		}
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "value"}
	if weighted {
		header = append(header, "weight")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		record := []string{r.ID, formatCell(r.Value)}
		if weighted {
			record = append(record, formatCell(r.Weight))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
