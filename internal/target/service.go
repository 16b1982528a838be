package target

import (
	"context"

	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
)

// Service implements wire.TargetServiceServer. GetPosition never returns
// PS_ERROR under normal operation; the sentinel is reserved for future use
// (§4.6).
type Service struct {
	data *Data
}

// NewService builds a Service over data.
func NewService(data *Data) *Service {
	return &Service{data: data}
}

// GetPosition returns the target's current ground-truth position.
func (s *Service) GetPosition(ctx context.Context, req *wire.GetPositionRequest) (*wire.GetPositionResponse, error) {
	pos := s.data.GetPosition()
	return &wire.GetPositionResponse{
		Status: int32(wire.PSOK),
		X:      wire.Float(pos.X),
		Y:      wire.Float(pos.Y),
		Z:      wire.Float(pos.Z),
	}, nil
}
