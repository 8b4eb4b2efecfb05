package guild

import "errors"

// ErrNotFound deliberately covers "no such order", "wrong state" and "wrong
// owner" in one outcome so callers cannot probe for records they may not act
// on.
var ErrNotFound = errors.New("no matching record")

// ErrUnauthorized means the caller's role set does not permit the requested
// operation or target.
var ErrUnauthorized = errors.New("not authorized")

// ErrValidation means the input itself is malformed: non-positive quantity,
// malformed order identifier, unknown recipe/level/quality.
var ErrValidation = errors.New("invalid input")
