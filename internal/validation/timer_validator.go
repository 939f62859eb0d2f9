package validation

// TimerValidator validates timer history writes and session state
type TimerValidator struct {
	validator *Validator
}

// NewTimerValidator creates a new timer validator
func NewTimerValidator() *TimerValidator {
	return &TimerValidator{validator: NewValidator()}
}

// ValidateHours checks a cumulative hours value
func (tv *TimerValidator) ValidateHours(field string, hours float64) error {
	if !tv.validator.IsValidHours(hours) {
		ve := NewValidationError()
		ve.AddInvalidValueError(field, hours, "must be a finite, non-negative number")
		return ve
	}
	return nil
}

// ValidateTimerStop checks the inputs of a timer history write
func (tv *TimerValidator) ValidateTimerStop(task string, cumulativeHours float64) error {
	ve := NewValidationError()
	if !tv.validator.IsNonEmptyString(task) {
		ve.AddRequiredError("task")
	}
	if !tv.validator.IsValidHours(cumulativeHours) {
		ve.AddInvalidValueError("hours", cumulativeHours, "must be a finite, non-negative number")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}
