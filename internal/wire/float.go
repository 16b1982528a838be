package wire

import (
	"encoding/json"
	"fmt"
	"math"
)

// Float is a float32 wire value that marshals ±Inf and NaN as JSON string
// sentinels instead of letting encoding/json reject them with an
// UnsupportedValueError. GetTargetGlobalPositionResponse's TS_ERROR
// sentinel (§6) is the infinite position (+Inf, +Inf, +Inf), and it has to
// actually cross the wire for the Client to see it.
type Float float32

const (
	posInfToken = "+Inf"
	negInfToken = "-Inf"
	nanToken    = "NaN"
)

// MarshalJSON encodes finite values as JSON numbers and ±Inf/NaN as their
// string token.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return json.Marshal(posInfToken)
	case math.IsInf(v, -1):
		return json.Marshal(negInfToken)
	case math.IsNaN(v):
		return json.Marshal(nanToken)
	default:
		return json.Marshal(float32(f))
	}
}

// UnmarshalJSON accepts either a JSON number or one of the sentinel tokens
// MarshalJSON produces.
func (f *Float) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		switch token {
		case posInfToken:
			*f = Float(math.Inf(1))
		case negInfToken:
			*f = Float(math.Inf(-1))
		case nanToken:
			*f = Float(math.NaN())
		default:
			return fmt.Errorf("wire: invalid float sentinel %q", token)
		}
		return nil
	}

	var v float32
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("wire: decoding float: %w", err)
	}
	*f = Float(v)
	return nil
}
