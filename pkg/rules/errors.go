package rules

import "errors"

var (
	// ErrWeightColumnMissing is returned when a named weight column is not
	// present on the input rows.
	ErrWeightColumnMissing = errors.New("rules: named weight column not present")

	// ErrWeightType is returned when a named weight column cannot be
	// coerced to numeric.
	ErrWeightType = errors.New("rules: weight column is not numeric")

	// ErrInvalidWeight is returned when no row keeps a usable weight after
	// cleaning (every row was NaN, absent from the column, or negative).
	ErrInvalidWeight = errors.New("rules: no valid weight values remain")

	// ErrRuleConflict is returned by RuleSet.Validate for nonsensical
	// weight/connector-rule combinations.
	ErrRuleConflict = errors.New("rules: conflicting weight and connector rule")

	// ErrArgumentRange is returned for out-of-range call arguments, e.g.
	// drop_middle_percent outside (0,100].
	ErrArgumentRange = errors.New("rules: argument out of range")
)
