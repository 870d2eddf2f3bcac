package growth

import "errors"

var (
	// ErrTableNotFound reports a lookup against a table the store does not hold.
	ErrTableNotFound = errors.New("reference table not found")
	// ErrEmptyTable reports a table without any usable row.
	ErrEmptyTable = errors.New("reference table has no rows")
	// ErrInvalidMeasurement reports a non-positive measurement or LMS parameter.
	ErrInvalidMeasurement = errors.New("measurement and LMS parameters must be positive")
	// ErrUnknownMetric reports a metric outside wfa/hfa/bfa.
	ErrUnknownMetric = errors.New("unknown growth metric")
)
