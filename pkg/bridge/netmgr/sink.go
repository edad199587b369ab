package netmgr

import (
	"fmt"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
)

// Sink adapts a Client into the network-manager collaborator the App
// Manager forwards every non-LBP ADP message to.
type Sink struct {
	client *Client
}

// NewSink wraps client as a Sink.
func NewSink(client *Client) *Sink {
	return &Sink{client: client}
}

// Forward publishes a summary of msg to Redis.
func (s *Sink) Forward(msg adp.Message) {
	s.client.PublishEvent(fmt.Sprintf("%T %+v", msg, msg))
}
