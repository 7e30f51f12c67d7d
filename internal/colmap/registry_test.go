package colmap

import (
	"errors"
	"testing"
)

func TestModelByID(t *testing.T) {
	m, err := ModelByID(1)
	if err != nil {
		t.Fatalf("ModelByID(1) failed: %v", err)
	}
	if m.Name != "PINHOLE" || m.NumParams != 4 {
		t.Errorf("ModelByID(1) = %+v, want PINHOLE with 4 params", m)
	}
}

func TestModelByName(t *testing.T) {
	m, err := ModelByName("THIN_PRISM_FISHEYE")
	if err != nil {
		t.Fatalf("ModelByName failed: %v", err)
	}
	if m.ID != 10 || m.NumParams != 12 {
		t.Errorf("ModelByName(THIN_PRISM_FISHEYE) = %+v, want id 10 with 12 params", m)
	}
}

func TestModelLookupUnknown(t *testing.T) {
	if _, err := ModelByID(999); !errors.Is(err, ErrUnknownCameraModel) {
		t.Errorf("ModelByID(999) error = %v, want ErrUnknownCameraModel", err)
	}
	if _, err := ModelByName("KALEIDOSCOPE"); !errors.Is(err, ErrUnknownCameraModel) {
		t.Errorf("ModelByName(KALEIDOSCOPE) error = %v, want ErrUnknownCameraModel", err)
	}
}

func TestModelTableComplete(t *testing.T) {
	models := Models()
	if len(models) != 11 {
		t.Fatalf("model table has %d entries, want 11", len(models))
	}

	// Both lookup directions must agree for every entry.
	for _, m := range models {
		byID, err := ModelByID(m.ID)
		if err != nil {
			t.Fatalf("ModelByID(%d) failed: %v", m.ID, err)
		}
		byName, err := ModelByName(m.Name)
		if err != nil {
			t.Fatalf("ModelByName(%q) failed: %v", m.Name, err)
		}
		if byID != byName {
			t.Errorf("lookup disagreement for %s: %+v vs %+v", m.Name, byID, byName)
		}
	}
}
