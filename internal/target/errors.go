package target

import "errors"

// ErrMalformedTrajectory is returned when the trajectory document is not a
// {"waypoints": [[x,y,z], ...]} object of 3-element numeric arrays.
var ErrMalformedTrajectory = errors.New("target: malformed trajectory document")
