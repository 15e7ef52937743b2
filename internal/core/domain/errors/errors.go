package errors

import "fmt"

type InvalidStateError struct {
	msg string
}

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

func (e *InvalidStateError) Error() string {
	return e.msg
}

type NilArgumentError struct {
	argument string
}

func NewNilArgumentError(argument string) *NilArgumentError {
	return &NilArgumentError{argument: argument}
}

func (e *NilArgumentError) Error() string {
	return fmt.Sprintf("argument '%s' must not be nil", e.argument)
}

// UnknownKindError reports a setting that selects an implementation which
// does not exist.
type UnknownKindError struct {
	setting string
	value   string
}

func NewUnknownKindError(setting string, value string) *UnknownKindError {
	return &UnknownKindError{setting: setting, value: value}
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown %s '%s'", e.setting, e.value)
}
