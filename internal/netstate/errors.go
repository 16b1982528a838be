package netstate

import "errors"

var (
	// ErrNetworkActive is returned by AddNode and BeginActivation when the
	// network has already been started or activation is in progress.
	ErrNetworkActive = errors.New("netstate: network is already active")

	// ErrNodeAlreadyRegistered is returned by AddNode when the node ID
	// collides with an existing registration.
	ErrNodeAlreadyRegistered = errors.New("netstate: node already registered")
)
