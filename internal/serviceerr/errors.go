package serviceerr

import "errors"

var ErrConflict = errors.New("concurrent update conflict")
var ErrNotFound = errors.New("session not found")
var ErrValidation = errors.New("invalid input")
var ErrOutOfSequence = errors.New("step requested out of sequence")
var ErrIndexOutOfRange = errors.New("step index out of range")
var ErrGenerationUnavailable = errors.New("generation service unavailable")
