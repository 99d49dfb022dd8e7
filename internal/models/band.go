package models

import (
	"errors"
	"fmt"
)

// ErrInvalidBand возвращается при нарушении инварианта диапазона.
var ErrInvalidBand = errors.New("invalid comfort band")

// ValidateComfortBand проверяет инвариант диапазона на границе записи.
// Классификатор в internal/scoring этот инвариант не перепроверяет.
func ValidateComfortBand(band ComfortBand) error {
	if band.MinCents < 0 {
		return fmt.Errorf("%w: min must not be negative", ErrInvalidBand)
	}

	if band.MinCents >= band.IdealCents {
		return fmt.Errorf("%w: min must be less than ideal", ErrInvalidBand)
	}

	if band.IdealCents >= band.MaxCents {
		return fmt.Errorf("%w: ideal must be less than max", ErrInvalidBand)
	}

	return nil
}
