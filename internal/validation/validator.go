package validation

import (
	"math"
	"strings"
)

// Validator provides common validation utilities
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// IsValidID checks if a row ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// IsValidHours checks that an hours value is finite and not negative
func (v *Validator) IsValidHours(hours float64) bool {
	return !math.IsNaN(hours) && !math.IsInf(hours, 0) && hours >= 0
}

// FirstLine returns the first line of a multi-line text blob, trimmed
func (v *Validator) FirstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(line)
}
