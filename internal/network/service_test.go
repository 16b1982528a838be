package network

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/signalsfoundry/multilat-sensor-net/internal/dealer"
	"github.com/signalsfoundry/multilat-sensor-net/internal/estimator"
	"github.com/signalsfoundry/multilat-sensor-net/internal/netstate"
	"github.com/signalsfoundry/multilat-sensor-net/internal/wire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeConn is a minimal in-memory dealer.Conn; it exists so
// StartNetwork/GetTargetGlobalPosition can be exercised without a live NATS
// server. It delivers replies only for subjects a test has given a handler
// via registerHandler.
type fakeConn struct {
	mu        sync.Mutex
	mailboxes map[string]chan *dealer.Msg
	handlers  map[string]func([]byte) ([]byte, bool)
	seq       int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		mailboxes: make(map[string]chan *dealer.Msg),
		handlers:  make(map[string]func([]byte) ([]byte, bool)),
	}
}

func (c *fakeConn) NewInbox() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return "inbox." + string(rune('a'+c.seq))
}

func (c *fakeConn) registerHandler(subject string, h func([]byte) ([]byte, bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[subject] = h
}

func (c *fakeConn) PublishRequest(subject, reply string, data []byte) error {
	c.mu.Lock()
	handler := c.handlers[subject]
	c.mu.Unlock()
	if handler == nil {
		return nil
	}
	replyData, ok := handler(data)
	if !ok {
		return nil
	}
	c.mu.Lock()
	mbox := c.mailboxes[reply]
	c.mu.Unlock()
	if mbox != nil {
		mbox <- &dealer.Msg{Subject: reply, Data: replyData}
	}
	return nil
}

func (c *fakeConn) SubscribeSync(subject string) (dealer.Subscription, error) {
	ch := make(chan *dealer.Msg, 64)
	c.mu.Lock()
	c.mailboxes[subject] = ch
	c.mu.Unlock()
	return &fakeSub{ch: ch}, nil
}

type fakeSub struct{ ch chan *dealer.Msg }

func (s *fakeSub) NextMsg(timeout time.Duration) (*dealer.Msg, error) {
	select {
	case m := <-s.ch:
		return m, nil
	case <-time.After(timeout):
		return nil, context.DeadlineExceeded
	}
}

func (s *fakeSub) Unsubscribe() error { return nil }

func newTestService(t *testing.T) (*Service, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	registry := netstate.New()
	d := dealer.New(conn)
	solver := estimator.New()
	return New(registry, d, solver, WithWorkers(2)), conn
}

func TestAddNodeThenDuplicateRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.AddNode(ctx, &wire.AddNodeRequest{NodeId: 1, X: 0, Y: 0, Z: 0, BindAddress: "tcp://node1:5551"})
	if err != nil || resp.Status != int32(wire.NSOK) {
		t.Fatalf("AddNode = %+v, %v, want NS_OK", resp, err)
	}

	resp, err = svc.AddNode(ctx, &wire.AddNodeRequest{NodeId: 1, X: 1, Y: 1, Z: 1, BindAddress: "tcp://node1:5551"})
	if err != nil {
		t.Fatalf("AddNode duplicate: %v", err)
	}
	if resp.Status != int32(wire.NSError) {
		t.Fatalf("AddNode duplicate status = %d, want NS_ERROR", resp.Status)
	}
}

func TestAddNodeRejectedAfterActivation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddNode(ctx, &wire.AddNodeRequest{NodeId: 1, BindAddress: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := svc.AddNode(ctx, &wire.AddNodeRequest{NodeId: 2, BindAddress: "b"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	startResp, err := svc.StartNetwork(ctx, &wire.StartNetworkRequest{ClientId: 1})
	if err != nil || startResp.Status != int32(wire.SSOK) || startResp.NNodes != 2 {
		t.Fatalf("StartNetwork = %+v, %v, want SS_OK/2", startResp, err)
	}

	resp, err := svc.AddNode(ctx, &wire.AddNodeRequest{NodeId: 3, BindAddress: "c"})
	if err != nil {
		t.Fatalf("AddNode after activation: %v", err)
	}
	if resp.Status != int32(wire.NSError) {
		t.Fatalf("AddNode after activation status = %d, want NS_ERROR", resp.Status)
	}
}

func TestStartNetworkRejectedWhenAlreadyActive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.StartNetwork(ctx, &wire.StartNetworkRequest{ClientId: 1}); err != nil {
		t.Fatalf("first StartNetwork: %v", err)
	}
	resp, err := svc.StartNetwork(ctx, &wire.StartNetworkRequest{ClientId: 2})
	if err != nil {
		t.Fatalf("second StartNetwork: %v", err)
	}
	if resp.Status != int32(wire.SSError) {
		t.Fatalf("second StartNetwork status = %d, want SS_ERROR", resp.Status)
	}
}

func TestGetTargetGlobalPositionErrorsWhenInactive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.GetTargetGlobalPosition(ctx, &wire.GetTargetGlobalPositionRequest{ClientId: 1})
	if err != nil {
		t.Fatalf("GetTargetGlobalPosition: %v", err)
	}
	if resp.Status != int32(wire.TSError) {
		t.Fatalf("status = %d, want TS_ERROR", resp.Status)
	}
	if !math.IsInf(float64(resp.X), 1) || !math.IsInf(float64(resp.Y), 1) || !math.IsInf(float64(resp.Z), 1) {
		t.Fatalf("inactive response = (%v,%v,%v), want (+Inf,+Inf,+Inf)", resp.X, resp.Y, resp.Z)
	}
}

func TestGetTargetGlobalPositionSolvesAfterActivation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	nodePositions := map[int32][3]float32{
		1: {0, 0, 0},
		2: {10, 0, 0},
		3: {0, 10, 0},
		4: {0, 0, 10},
	}
	for id, p := range nodePositions {
		addr := "tcp://node/" + string(rune('0'+id))
		if _, err := svc.AddNode(ctx, &wire.AddNodeRequest{NodeId: id, X: wire.Float(p[0]), Y: wire.Float(p[1]), Z: wire.Float(p[2]), BindAddress: addr}); err != nil {
			t.Fatalf("AddNode(%d): %v", id, err)
		}
	}

	startResp, err := svc.StartNetwork(ctx, &wire.StartNetworkRequest{ClientId: 1})
	if err != nil || startResp.Status != int32(wire.SSOK) {
		t.Fatalf("StartNetwork = %+v, %v", startResp, err)
	}

	target := [3]float64{3, 4, 2}
	for id, p := range nodePositions {
		id := id
		sensor := [3]float64{float64(p[0]), float64(p[1]), float64(p[2])}
		dist := math.Sqrt(
			(target[0]-sensor[0])*(target[0]-sensor[0]) +
				(target[1]-sensor[1])*(target[1]-sensor[1]) +
				(target[2]-sensor[2])*(target[2]-sensor[2]),
		)
		addr := "tcp://node/" + string(rune('0'+id))
		subj := dealer.NodeSubject(addr)
		conn.registerHandler(subj, func(data []byte) ([]byte, bool) {
			return []byte(wire.FormatDistanceReply(id, dist)), true
		})
	}

	resp, err := svc.GetTargetGlobalPosition(ctx, &wire.GetTargetGlobalPositionRequest{ClientId: 1})
	if err != nil {
		t.Fatalf("GetTargetGlobalPosition: %v", err)
	}
	if resp.Status != int32(wire.TSOK) {
		t.Fatalf("status = %d, want TS_OK", resp.Status)
	}
	gotErr := math.Abs(float64(resp.X)-target[0]) + math.Abs(float64(resp.Y)-target[1]) + math.Abs(float64(resp.Z)-target[2])
	if gotErr > 1e-2 {
		t.Fatalf("estimated position = (%v,%v,%v), want near %v (err %v)", resp.X, resp.Y, resp.Z, target, gotErr)
	}
}

func TestAddNodeReturnsStatusErrorOnContextCancellation(t *testing.T) {
	registry := netstate.New()
	d := dealer.New(newFakeConn())
	solver := estimator.New()
	svc := New(registry, d, solver, WithWorkers(1))

	block := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	go svc.pool.submit(context.Background(), func() (interface{}, error) {
		close(block)
		<-release
		return nil, nil
	})
	<-block // the pool's single worker is now busy, so the next submit blocks waiting to enqueue

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AddNode(ctx, &wire.AddNodeRequest{NodeId: 1, BindAddress: "a"})
	if err == nil {
		t.Fatal("AddNode = nil error, want a status error from the cancelled context")
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("err = %v, not a gRPC status error", err)
	}
	if st.Code() != codes.Canceled {
		t.Errorf("code = %v, want Canceled", st.Code())
	}
}

func TestGetTargetGlobalPositionConcurrentRequestsSerializeOnDealer(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	for id := int32(1); id <= 4; id++ {
		addr := "tcp://node/" + string(rune('0'+id))
		if _, err := svc.AddNode(ctx, &wire.AddNodeRequest{NodeId: id, X: wire.Float(id) * 5, BindAddress: addr}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if _, err := svc.StartNetwork(ctx, &wire.StartNetworkRequest{ClientId: 1}); err != nil {
		t.Fatalf("StartNetwork: %v", err)
	}
	for id := int32(1); id <= 4; id++ {
		id := id
		addr := "tcp://node/" + string(rune('0'+id))
		subj := dealer.NodeSubject(addr)
		conn.registerHandler(subj, func(data []byte) ([]byte, bool) {
			return []byte(wire.FormatDistanceReply(id, float64(id))), true
		})
	}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.GetTargetGlobalPosition(ctx, &wire.GetTargetGlobalPositionRequest{ClientId: 1})
			if err != nil {
				errs <- err
				return
			}
			if resp.Status != int32(wire.TSOK) {
				errs <- context.DeadlineExceeded
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent GetTargetGlobalPosition failed: %v", err)
	}
}
