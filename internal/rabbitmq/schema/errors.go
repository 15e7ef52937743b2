package schema

import "errors"

var errEmptyHandle = errors.New("notification handle must not be empty")
