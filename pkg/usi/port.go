package usi

import (
	"io"
	"log"

	"github.com/nano-e/g3usi-adapter/pkg/frame"
)

// timeoutError is satisfied by transports (e.g. a serial port) whose
// Read may legitimately time out without that being a transport
// failure; the Port treats such errors as benign.
type timeoutError interface {
	Timeout() bool
}

// Port owns one byte-stream reader and one byte-stream writer and
// pumps bytes between them and the frame codec. It runs two
// independent loops (RX, TX) and never shares mutable state with
// them beyond channels.
type Port struct {
	reader io.Reader
	writer io.Writer

	listeners []chan Message
	outbound  chan Message
	stopCh    chan struct{}

	message *frame.InMessage
}

// New constructs a Port over reader/writer. Listeners must be added
// with AddListener before Start.
func New(reader io.Reader, writer io.Writer) *Port {
	return &Port{
		reader:   reader,
		writer:   writer,
		outbound: make(chan Message, 4096),
		stopCh:   make(chan struct{}),
		message:  frame.NewInMessage(),
	}
}

// AddListener registers a channel to receive decoded inbound frames.
// Only valid before Start; the Port owns the channel's send end and
// never closes it.
func (p *Port) AddListener(ch chan Message) {
	p.listeners = append(p.listeners, ch)
}

// SendCmd enqueues an outbound message for the TX loop. Implements
// Sender. The channel is sized large enough that a full channel
// indicates a stuck writer, not expected backpressure.
func (p *Port) SendCmd(cmd Message) bool {
	select {
	case p.outbound <- cmd:
		return true
	default:
		log.Printf("usi: outbound queue full, dropping command")
		return false
	}
}

// Start launches the RX and TX loops as goroutines. It returns
// immediately; call Stop to tear them down.
func (p *Port) Start() {
	go p.rxLoop()
	go p.txLoop()
}

// Stop signals both loops to exit after their current blocking call
// returns.
func (p *Port) Stop() {
	close(p.stopCh)
}

// rxLoop reads bytes, drives the frame codec, and broadcasts decoded
// frames to every listener. Read timeouts are benign; CRC/escape
// errors discard the in-flight frame and resync at the next
// delimiter.
func (p *Port) rxLoop() {
	buf := make([]byte, 4096)
	for {
		select {
		case <-p.stopCh:
			return
		default:
		}

		n, err := p.reader.Read(buf)
		if err != nil {
			if te, ok := err.(timeoutError); ok && te.Timeout() {
				continue
			}
			if err == io.EOF {
				continue
			}
			log.Printf("usi: read error: %v", err)
			continue
		}
		if n == 0 {
			continue
		}

		consumed := 0
		for consumed < n {
			c := p.message.Process(buf[consumed:n])
			consumed += c

			switch p.message.State() {
			case frame.RxDone:
				p.message.Finalize()
				p.broadcast(p.message)
				p.message = frame.NewInMessage()
			case frame.RxError:
				log.Printf("usi: failed to parse message: RxError")
				p.message = frame.NewInMessage()
			default:
				// Ran out of bytes mid-frame; keep accumulating on
				// the next Read.
			}
			if c == 0 {
				break
			}
		}
	}
}

// broadcast clones the finalized message once per listener and sends
// it fire-and-forget: a slow or gone listener never blocks the RX
// loop.
func (p *Port) broadcast(m *frame.InMessage) {
	for _, l := range p.listeners {
		clone := m.Clone()
		select {
		case l <- UsiIn(clone):
		default:
			log.Printf("usi: listener lagging, dropping frame")
		}
	}
}

// txLoop drains the outbound channel, encodes via the frame codec,
// and writes the result with a blocking full-write. Write failures
// are logged but never terminate the loop.
func (p *Port) txLoop() {
	for {
		select {
		case <-p.stopCh:
			return
		case msg, ok := <-p.outbound:
			if !ok {
				return
			}
			if msg.Kind != KindUsiOut {
				continue
			}
			wire, err := msg.Out.Encode()
			if err != nil {
				log.Printf("usi: failed to encode outbound frame: %v", err)
				continue
			}
			if err := writeFull(p.writer, wire); err != nil {
				log.Printf("usi: failed to write to port: %v", err)
			}
		}
	}
}

func writeFull(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}
