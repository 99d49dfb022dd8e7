package models

import "testing"

// TestValidateComfortBand проверяет инвариант min < ideal < max.
func TestValidateComfortBand(t *testing.T) {
	valid := ComfortBand{MinCents: 1500, IdealCents: 3500, MaxCents: 6000}
	if err := ValidateComfortBand(valid); err != nil {
		t.Fatalf("expected valid band, got %v", err)
	}

	if err := ValidateComfortBand(ComfortBand{MinCents: -1, IdealCents: 10, MaxCents: 20}); err == nil {
		t.Fatal("expected error for negative min")
	}

	if err := ValidateComfortBand(ComfortBand{MinCents: 10, IdealCents: 10, MaxCents: 20}); err == nil {
		t.Fatal("expected error for min == ideal")
	}

	if err := ValidateComfortBand(ComfortBand{MinCents: 10, IdealCents: 30, MaxCents: 30}); err == nil {
		t.Fatal("expected error for ideal == max")
	}
}
