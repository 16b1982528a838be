package wire

// Message types for NetworkService and TargetService (§6). These stand in
// for protoc-generated message structs: field names and JSON tags are the
// wire contract since messages cross the network through the JSON codec
// rather than a binary protobuf encoding.

// AddNodeRequest registers a sensor node's position and data-plane bind
// address with the Network coordinator.
type AddNodeRequest struct {
	NodeId      int32  `json:"node_id"`
	X           Float  `json:"x"`
	Y           Float  `json:"y"`
	Z           Float  `json:"z"`
	BindAddress string `json:"bind_address"`
}

// AddNodeResponse reports whether registration succeeded.
type AddNodeResponse struct {
	Status int32 `json:"status"`
}

// StartNetworkRequest asks the Network coordinator to activate the fleet.
type StartNetworkRequest struct {
	ClientId int32 `json:"client_id"`
}

// StartNetworkResponse reports activation outcome and fleet size.
type StartNetworkResponse struct {
	Status int32 `json:"status"`
	NNodes int32 `json:"n_nodes"`
}

// GetTargetGlobalPositionRequest asks the Network coordinator for the most
// recent multilaterated target position.
type GetTargetGlobalPositionRequest struct {
	ClientId int32 `json:"client_id"`
}

// GetTargetGlobalPositionResponse carries the estimated position, or the
// TS_ERROR sentinel (+Inf, +Inf, +Inf) when no estimate is available.
type GetTargetGlobalPositionResponse struct {
	Status int32 `json:"status"`
	X      Float `json:"x"`
	Y      Float `json:"y"`
	Z      Float `json:"z"`
}

// GetPositionRequest asks the Target for its current ground-truth position.
type GetPositionRequest struct {
	NodeId int32 `json:"node_id"`
}

// GetPositionResponse carries the Target's current position.
type GetPositionResponse struct {
	Status int32 `json:"status"`
	X      Float `json:"x"`
	Y      Float `json:"y"`
	Z      Float `json:"z"`
}
