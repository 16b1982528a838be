package wire

// Status enums for the control-plane RPCs (§6). Numeric values are part of
// the cross-implementation contract and must never be renumbered.

// NodeStatus is the result of an AddNode call.
type NodeStatus int32

const (
	NSUnknown NodeStatus = 0
	NSOK      NodeStatus = 1
	NSError   NodeStatus = 2
)

// StartStatus is the result of a StartNetwork call.
type StartStatus int32

const (
	SSUnknown StartStatus = 0
	SSOK      StartStatus = 1
	SSError   StartStatus = 2
)

// TargetStatus is the result of a GetTargetGlobalPosition call.
type TargetStatus int32

const (
	TSUnknown TargetStatus = 0
	TSOK      TargetStatus = 1
	TSError   TargetStatus = 2
)

// PositionStatus is the result of a GetPosition call against the Target.
type PositionStatus int32

const (
	PSUnknown PositionStatus = 0
	PSOK      PositionStatus = 1
	PSError   PositionStatus = 2
)
