package params

import "fmt"

// InvalidFieldError reports a scalar setter call with a name outside the
// adjustment field schema. Matrix dimensions and cells are deliberately not
// reachable through SetField.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("unrecognized adjustment field %q", e.Field)
}

// OutOfRangeError reports a value or index outside its valid range. It covers
// matrix cell indices as well as fail-fast preconditions such as a
// non-positive shadows value.
type OutOfRangeError struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %g outside range [%g, %g]", e.Name, e.Value, e.Min, e.Max)
}
