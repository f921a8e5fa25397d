package entities

import "errors"

var ErrStoreEntityNotFound = errors.New("store resource not found")

// ErrNetwork marks failures reaching the rpc (transport errors and non 2xx responses).
var ErrNetwork = errors.New("network error")

// ErrParse marks responses that could not be decoded into the expected shape.
var ErrParse = errors.New("parse error")

// ErrComparison marks failures while extracting or diffing transaction ids. Never returned to callers of the detector.
var ErrComparison = errors.New("comparison error")

var ErrUnknownIdentity = errors.New("unknown identity")
