package noderouter

import "github.com/nats-io/nats.go"

// natsConn adapts *nats.Conn to the Conn interface.
type natsConn struct {
	nc *nats.Conn
}

// WrapConn returns a Conn backed by a live NATS connection.
func WrapConn(nc *nats.Conn) Conn {
	return natsConn{nc: nc}
}

func (c natsConn) Subscribe(subject string, handler func(*Msg)) (Subscription, error) {
	sub, err := c.nc.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Msg{Subject: msg.Subject, Reply: msg.Reply, Data: msg.Data})
	})
	if err != nil {
		return nil, err
	}
	return natsSubscription{sub: sub}, nil
}

func (c natsConn) Publish(subject string, data []byte) error {
	return c.nc.Publish(subject, data)
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (s natsSubscription) Unsubscribe() error {
	return s.sub.Unsubscribe()
}
