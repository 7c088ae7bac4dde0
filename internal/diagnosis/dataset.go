package diagnosis

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"symptom-check-bot/internal/catalog"
)

// Dataset is the labeled training corpus: one row per historical case,
// binary symptom indicator columns in catalog order, one condition label per
// row. It is read-only after construction.
type Dataset struct {
	catalog    *catalog.Catalog
	conditions []string // first-appearance order, stable tie-break order
	condIndex  map[string]int
	rows       [][]float64
	labels     []int // index into conditions, parallel to rows
}

// NewDataset builds a dataset from in-memory records. Columns are the ordered
// symptom vocabulary; each row must have len(columns) indicator values.
func NewDataset(columns []catalog.Symptom, rows [][]float64, labels []string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset: no training rows")
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("dataset: %d rows but %d labels", len(rows), len(labels))
	}
	cat, err := catalog.New(columns)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		catalog:   cat,
		condIndex: make(map[string]int),
		rows:      rows,
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("dataset: row %d has %d values, want %d", i, len(row), len(columns))
		}
		label := strings.TrimSpace(labels[i])
		if label == "" {
			return nil, fmt.Errorf("dataset: row %d has empty label", i)
		}
		ci, ok := ds.condIndex[label]
		if !ok {
			ci = len(ds.conditions)
			ds.condIndex[label] = ci
			ds.conditions = append(ds.conditions, label)
		}
		ds.labels = append(ds.labels, ci)
	}
	return ds, nil
}

// LoadTrainingCSV reads a training corpus in the reference layout: a header
// row of symptom column names followed by a final label column, then one row
// per case with 0/1 indicators.
func LoadTrainingCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open training corpus: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read training corpus: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("training corpus %s has no data rows", path)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("training corpus %s has no symptom columns", path)
	}
	columns := make([]catalog.Symptom, len(header)-1)
	for i, name := range header[:len(header)-1] {
		columns[i] = catalog.Symptom(catalog.Normalize(name))
	}

	rows := make([][]float64, 0, len(records)-1)
	labels := make([]string, 0, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("training corpus row %d has %d fields, want %d", n+2, len(rec), len(header))
		}
		row := make([]float64, len(columns))
		for i, cell := range rec[:len(columns)] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("training corpus row %d col %d: %w", n+2, i+1, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
		labels = append(labels, rec[len(rec)-1])
	}
	return NewDataset(columns, rows, labels)
}

// Catalog returns the symptom vocabulary derived from the corpus header.
func (d *Dataset) Catalog() *catalog.Catalog { return d.catalog }

// Conditions returns the condition labels in first-appearance order.
func (d *Dataset) Conditions() []string { return d.conditions }

// Cases returns the number of training rows.
func (d *Dataset) Cases() int { return len(d.rows) }

// Prevalence computes, per condition, the mean incidence of every symptom
// among that condition's training cases. Values are in [0,1], indexed in
// catalog feature order.
func (d *Dataset) Prevalence() map[string][]float64 {
	sums := make([][]float64, len(d.conditions))
	counts := make([]int, len(d.conditions))
	for i := range sums {
		sums[i] = make([]float64, d.catalog.Size())
	}
	for i, row := range d.rows {
		ci := d.labels[i]
		counts[ci]++
		for j, v := range row {
			sums[ci][j] += v
		}
	}

	out := make(map[string][]float64, len(d.conditions))
	for i, cond := range d.conditions {
		prev := sums[i]
		if counts[i] > 0 {
			for j := range prev {
				prev[j] /= float64(counts[i])
			}
		}
		out[cond] = prev
	}
	return out
}
