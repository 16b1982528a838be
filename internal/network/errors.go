package network

import (
	"context"
	"errors"

	"github.com/signalsfoundry/multilat-sensor-net/internal/estimator"
	"github.com/signalsfoundry/multilat-sensor-net/internal/netstate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidPosition is returned when AddNode carries a non-finite position.
var ErrInvalidPosition = errors.New("network: node position must be finite")

// ToStatusError maps the errors that can escape the worker pool onto gRPC
// status codes. AddNode/StartNetwork/GetTargetGlobalPosition report domain
// failures (registration conflicts, inactive network, solver failure) as
// wire status fields on an otherwise-nil error per §6, so the only errors
// that reach the gRPC transport are the pool's own: the caller's context
// expiring or being cancelled while a request waits for a free worker.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, netstate.ErrNodeAlreadyRegistered):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, netstate.ErrNetworkActive):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrInvalidPosition):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, estimator.ErrInsufficientMeasurements),
		errors.Is(err, estimator.ErrSolverDivergence):
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
