package wire

import (
	"math"
	"testing"
)

func TestFormatParseDistanceReplyRoundTrip(t *testing.T) {
	frame := FormatDistanceReply(7, 12.5)
	id, dist, err := ParseDistanceReply(frame)
	if err != nil {
		t.Fatalf("ParseDistanceReply: %v", err)
	}
	if id != 7 {
		t.Errorf("node id = %d, want 7", id)
	}
	if dist != 12.5 {
		t.Errorf("distance = %v, want 12.5", dist)
	}
}

func TestParseDistanceReplyRejectsMalformed(t *testing.T) {
	cases := []string{"", "noseparator", "abc:1.0", "3:notanumber"}
	for _, frame := range cases {
		if _, _, err := ParseDistanceReply(frame); err == nil {
			t.Errorf("ParseDistanceReply(%q) = nil error, want error", frame)
		}
	}
}

func TestJSONCodecRoundTrip(t *testing.T) {
	c := jsonCodec{}
	req := &AddNodeRequest{NodeId: 3, X: 1, Y: 2, Z: 3, BindAddress: "tcp://127.0.0.1:5555"}
	data, err := c.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := new(AddNodeRequest)
	if err := c.Unmarshal(data, got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if *got != *req {
		t.Errorf("round-tripped request = %+v, want %+v", got, req)
	}
	if c.Name() != CodecName {
		t.Errorf("Name() = %q, want %q", c.Name(), CodecName)
	}
}

func TestJSONCodecRoundTripsTSErrorSentinel(t *testing.T) {
	c := jsonCodec{}
	resp := &GetTargetGlobalPositionResponse{
		Status: int32(TSError),
		X:      Float(math.Inf(1)),
		Y:      Float(math.Inf(1)),
		Z:      Float(math.Inf(1)),
	}

	data, err := c.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got := new(GetTargetGlobalPositionResponse)
	if err := c.Unmarshal(data, got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Status != resp.Status {
		t.Errorf("Status = %d, want %d", got.Status, resp.Status)
	}
	if !math.IsInf(float64(got.X), 1) || !math.IsInf(float64(got.Y), 1) || !math.IsInf(float64(got.Z), 1) {
		t.Errorf("round-tripped position = (%v, %v, %v), want (+Inf, +Inf, +Inf)", got.X, got.Y, got.Z)
	}
}

func TestFloatMarshalsFiniteValuesAsNumbers(t *testing.T) {
	data, err := Float(1.5).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != "1.5" {
		t.Errorf("MarshalJSON(1.5) = %s, want 1.5", data)
	}
}

func TestFloatRoundTripsNaN(t *testing.T) {
	data, err := Float(math.NaN()).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	var got Float
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !math.IsNaN(float64(got)) {
		t.Errorf("round-tripped value = %v, want NaN", got)
	}
}

func TestFloatUnmarshalRejectsUnknownToken(t *testing.T) {
	var got Float
	if err := got.UnmarshalJSON([]byte(`"bogus"`)); err == nil {
		t.Error("UnmarshalJSON(\"bogus\") = nil error, want error")
	}
}
