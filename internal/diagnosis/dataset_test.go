package diagnosis

import (
	"testing"

	"symptom-check-bot/internal/catalog"
)

func TestLoadTrainingCSV(t *testing.T) {
	ds, err := LoadTrainingCSV("testdata/training.csv")
	if err != nil {
		t.Fatalf("LoadTrainingCSV: %v", err)
	}

	if got := ds.Catalog().Size(); got != 4 {
		t.Errorf("catalog size = %d, want 4", got)
	}
	if got := ds.Cases(); got != 5 {
		t.Errorf("cases = %d, want 5", got)
	}

	wantConditions := []string{"Fungal infection", "Common Cold", "Malaria"}
	got := ds.Conditions()
	if len(got) != len(wantConditions) {
		t.Fatalf("conditions = %v, want %v", got, wantConditions)
	}
	for i, c := range wantConditions {
		if got[i] != c {
			t.Errorf("conditions[%d] = %s, want %s (first-appearance order)", i, got[i], c)
		}
	}
}

func TestDataset_Prevalence(t *testing.T) {
	ds, err := LoadTrainingCSV("testdata/training.csv")
	if err != nil {
		t.Fatalf("LoadTrainingCSV: %v", err)
	}

	prev := ds.Prevalence()

	idx := func(s catalog.Symptom) int {
		i, ok := ds.Catalog().Index(s)
		if !ok {
			t.Fatalf("symptom %s missing from catalog", s)
		}
		return i
	}

	if got := prev["Fungal infection"][idx("itching")]; got != 1 {
		t.Errorf("itching prevalence for fungal infection = %v, want 1", got)
	}
	if got := prev["Common Cold"][idx("cough")]; got != 1 {
		t.Errorf("cough prevalence for common cold = %v, want 1", got)
	}
	if got := prev["Malaria"][idx("cough")]; got != 0 {
		t.Errorf("cough prevalence for malaria = %v, want 0", got)
	}
}

func TestLoadTrainingCSV_Missing(t *testing.T) {
	if _, err := LoadTrainingCSV("testdata/does_not_exist.csv"); err == nil {
		t.Fatal("expected error for missing corpus")
	}
}

func TestNewDataset_Validation(t *testing.T) {
	cols := []catalog.Symptom{"a", "b"}

	if _, err := NewDataset(cols, nil, nil); err == nil {
		t.Error("expected error for empty corpus")
	}
	if _, err := NewDataset(cols, [][]float64{{1}}, []string{"X"}); err == nil {
		t.Error("expected error for short row")
	}
	if _, err := NewDataset(cols, [][]float64{{1, 0}}, []string{""}); err == nil {
		t.Error("expected error for empty label")
	}
	if _, err := NewDataset(cols, [][]float64{{1, 0}, {0, 1}}, []string{"X"}); err == nil {
		t.Error("expected error for row/label mismatch")
	}
}
