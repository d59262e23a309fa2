package compliance

import "errors"

// ErrInvalidEmission is returned when a strategy yields a negative emission
// level. The affected test stays in progress and no verdict is recorded.
var ErrInvalidEmission = errors.New("invalid emission level")

// ErrUnknownVehicle is returned by the query boundary when an identifier has
// no registry entry and no corresponding vehicle.
var ErrUnknownVehicle = errors.New("unknown vehicle")

// ErrMalformedIdentifier is returned when an identifier does not parse to a
// valid vehicle reference.
var ErrMalformedIdentifier = errors.New("malformed vehicle identifier")
