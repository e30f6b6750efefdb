package factor

import (
	"errors"
	"testing"
)

func TestNewVariable(t *testing.T) {
	v, err := NewVariable("guest", "A", "B", "C")
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}

	if v.Name() != "guest" {
		t.Errorf("Name() = %v, want guest", v.Name())
	}
	if v.Cardinality() != 3 {
		t.Errorf("Cardinality() = %v, want 3", v.Cardinality())
	}

	labels := v.Labels()
	if len(labels) != 3 || labels[0] != "A" || labels[1] != "B" || labels[2] != "C" {
		t.Errorf("Labels() = %v, want [A B C]", labels)
	}

	if idx, ok := v.Index("B"); !ok || idx != 1 {
		t.Errorf("Index(B) = %v, %v, want 1, true", idx, ok)
	}
	if _, ok := v.Index("D"); ok {
		t.Error("Index(D) should not exist")
	}
	if v.Label(2) != "C" {
		t.Errorf("Label(2) = %v, want C", v.Label(2))
	}
}

func TestNewVariable_EmptyDomain(t *testing.T) {
	_, err := NewVariable("empty")
	if !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("Expected ErrEmptyDomain, got %v", err)
	}
	if !IsValidation(err) {
		t.Error("Empty domain should be a validation error")
	}
}

func TestNewVariable_DuplicateLabels(t *testing.T) {
	_, err := NewVariable("coin", "heads", "tails", "heads")
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("Expected ErrDuplicateLabel, got %v", err)
	}
}

func TestVariable_LabelsIsCopy(t *testing.T) {
	v := MustVariable("weather", "sun", "rain")
	labels := v.Labels()
	labels[0] = "snow"

	if v.Label(0) != "sun" {
		t.Error("Mutating the returned label slice must not affect the variable")
	}
}

func TestMustVariable_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustVariable should panic on invalid domain")
		}
	}()
	MustVariable("bad")
}
