package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// GetDistanceRequest is the data-plane request token a Node's router
// recognizes; anything else is an unknown command.
const GetDistanceRequest = "GetDistance"

// FormatDistanceReply encodes a node's distance reading as "<node_id>:<distance>",
// the text frame NodeRouter sends back to the dealer.
func FormatDistanceReply(nodeID int32, distance float64) string {
	return fmt.Sprintf("%d:%f", nodeID, distance)
}

// ParseDistanceReply decodes a "<node_id>:<distance>" frame produced by
// FormatDistanceReply.
func ParseDistanceReply(frame string) (nodeID int32, distance float64, err error) {
	idx := strings.IndexByte(frame, ':')
	if idx < 0 {
		return 0, 0, fmt.Errorf("wire: malformed distance reply %q: missing separator", frame)
	}
	id, err := strconv.ParseInt(frame[:idx], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("wire: malformed distance reply %q: %w", frame, err)
	}
	dist, err := strconv.ParseFloat(frame[idx+1:], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("wire: malformed distance reply %q: %w", frame, err)
	}
	return int32(id), dist, nil
}
