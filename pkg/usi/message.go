// Package usi owns the byte-stream endpoints to the modem, pumps raw
// bytes through the frame codec, and fans out decoded frames to
// listeners while draining an outbound queue back onto the wire.
package usi

import (
	"time"

	"github.com/nano-e/g3usi-adapter/pkg/frame"
)

// Kind discriminates the variants of Message: the four kinds of event
// the App Manager's loop reacts to.
type Kind int

const (
	KindUsiIn Kind = iota
	KindUsiOut
	KindHeartBeat
	KindSystemStartup
)

// Message is the single channel type carried between the Port, the
// App Manager and any other command producer. Exactly one of In/Out/
// Time is meaningful, selected by Kind.
type Message struct {
	Kind Kind
	In   *frame.InMessage
	Out  frame.OutMessage
	Time time.Time
}

// UsiIn wraps a decoded inbound frame.
func UsiIn(m *frame.InMessage) Message {
	return Message{Kind: KindUsiIn, In: m}
}

// UsiOut wraps an outbound command frame.
func UsiOut(m frame.OutMessage) Message {
	return Message{Kind: KindUsiOut, Out: m}
}

// HeartBeat wraps a periodic external timer tick.
func HeartBeat(t time.Time) Message {
	return Message{Kind: KindHeartBeat, Time: t}
}

// SystemStartup is the one-shot boot signal.
func SystemStartup() Message {
	return Message{Kind: KindSystemStartup}
}

// Sender is satisfied by anything that can accept outbound USI
// messages for eventual transmission (the Port's command channel, or
// a test double).
type Sender interface {
	SendCmd(cmd Message) bool
}
