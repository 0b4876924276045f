package vmath

import "errors"

// ErrIndexOutOfRange is returned by component accessors for an index outside
// [0, dimension).
var ErrIndexOutOfRange = errors.New("vmath: component index out of range")
