package classifier

import "errors"

var (
	ErrNotTrained      = errors.New("classifier must be trained before classifying")
	ErrUnknownCategory = errors.New("unknown category")
)
