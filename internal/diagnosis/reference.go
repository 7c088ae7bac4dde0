package diagnosis

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"symptom-check-bot/internal/catalog"
)

// Defaults used when a predicted condition is missing from the reference
// tables. Missing reference data degrades the answer, it never fails it.
const (
	defaultDescription = "No description available."
	defaultPrecaution  = "No precautions found."
)

// Reference holds the static lookup tables shipped alongside the training
// corpus: condition descriptions, condition precautions (up to four), and
// per-symptom severity weights. Immutable after loading.
type Reference struct {
	Descriptions    map[string]string
	Precautions     map[string][]string
	SeverityWeights map[catalog.Symptom]int
}

// LoadReference reads the three reference CSVs from dir. Missing files leave
// the corresponding table empty rather than failing startup; lookups then
// fall back to the documented defaults.
func LoadReference(dir string) (*Reference, error) {
	ref := &Reference{
		Descriptions:    make(map[string]string),
		Precautions:     make(map[string][]string),
		SeverityWeights: make(map[catalog.Symptom]int),
	}

	if rows, err := readCSVIfPresent(dir + "/Symptom_severity.csv"); err != nil {
		return nil, err
	} else {
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			key := catalog.Symptom(catalog.Normalize(row[0]))
			w, err := strconv.Atoi(strings.TrimSpace(row[1]))
			if err != nil || w < 0 {
				w = 0
			}
			ref.SeverityWeights[key] = w
		}
	}

	if rows, err := readCSVIfPresent(dir + "/symptom_Description.csv"); err != nil {
		return nil, err
	} else {
		for _, row := range rows {
			if len(row) < 1 {
				continue
			}
			name := strings.TrimSpace(row[0])
			if len(row) > 1 {
				ref.Descriptions[name] = row[1]
			}
		}
	}

	if rows, err := readCSVIfPresent(dir + "/symptom_precaution.csv"); err != nil {
		return nil, err
	} else {
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			name := strings.TrimSpace(row[0])
			end := len(row)
			if end > 5 {
				end = 5
			}
			var precautions []string
			for _, p := range row[1:end] {
				if strings.TrimSpace(p) != "" {
					precautions = append(precautions, p)
				}
			}
			if len(precautions) > 0 {
				ref.Precautions[name] = precautions
			}
		}
	}

	return ref, nil
}

// Description returns the condition description or the documented default.
func (r *Reference) Description(condition string) string {
	if d, ok := r.Descriptions[condition]; ok && d != "" {
		return d
	}
	return defaultDescription
}

// PrecautionList returns the condition's precautions or the documented
// default.
func (r *Reference) PrecautionList(condition string) []string {
	if p, ok := r.Precautions[condition]; ok && len(p) > 0 {
		return p
	}
	return []string{defaultPrecaution}
}

func readCSVIfPresent(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open reference table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read reference table %s: %w", path, err)
	}
	return rows, nil
}
