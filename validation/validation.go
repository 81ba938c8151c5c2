package validation

import "strings"

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// MinFloat rejects values below the minimum. Used for quantities, which
// must be at least 0.01 rather than merely positive.
func MinFloat(field string, val, minVal float64, v Violations) {
	if val < minVal {
		v[field] = "too_small"
	}
}

// NonNegativeFloat rejects values below zero. Zero stays allowed so free
// line items keep working.
func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// RequiredID rejects zero ids on mandatory references.
func RequiredID(field string, id uint, v Violations) {
	if id == 0 {
		v[field] = "required"
	}
}
