package dealer

import (
	"time"

	"github.com/nats-io/nats.go"
)

// natsConn adapts *nats.Conn to the Conn interface.
type natsConn struct {
	nc *nats.Conn
}

// WrapConn returns a Conn backed by a live NATS connection.
func WrapConn(nc *nats.Conn) Conn {
	return natsConn{nc: nc}
}

func (c natsConn) NewInbox() string {
	return nats.NewInbox()
}

func (c natsConn) PublishRequest(subject, reply string, data []byte) error {
	return c.nc.PublishRequest(subject, reply, data)
}

func (c natsConn) SubscribeSync(subject string) (Subscription, error) {
	sub, err := c.nc.SubscribeSync(subject)
	if err != nil {
		return nil, err
	}
	return natsSubscription{sub: sub}, nil
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (s natsSubscription) NextMsg(timeout time.Duration) (*Msg, error) {
	msg, err := s.sub.NextMsg(timeout)
	if err != nil {
		return nil, err
	}
	return &Msg{Subject: msg.Subject, Reply: msg.Reply, Data: msg.Data}, nil
}

func (s natsSubscription) Unsubscribe() error {
	return s.sub.Unsubscribe()
}
