package appmanager

import (
	"log"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
	"github.com/nano-e/g3usi-adapter/pkg/usi"
)

// getParamsState reads back the attributes SetParams programmed, plus
// the extended address, storing the latter in Context for the
// bootstrap states.
type getParamsState struct {
	index int
}

func newGetParamsState() *getParamsState {
	return &getParamsState{}
}

// attributesToRead is DefaultPIBAttributes plus the extended address,
// read back last.
func attributesToRead() []adp.PIBAttribute {
	return append(append([]adp.PIBAttribute{}, adp.DefaultPIBAttributes...), adp.ReadBackAttribute)
}

func (s *getParamsState) OnEnter(cs CommandSender, ctx *Context) Response {
	s.index = 0
	s.sendCurrent(cs)
	return Handled()
}

func (s *getParamsState) sendCurrent(cs CommandSender) {
	attr := attributesToRead()[s.index]
	log.Printf("appmanager: GetParams - requesting attribute %v", attr)
	cs.SendCmd(usi.UsiOut(adp.EncodeGetRequest(attr, 0)))
}

func (s *getParamsState) OnEvent(cs CommandSender, event any, ctx *Context) Response {
	ev, ok := event.(AdpEvent)
	if !ok {
		return Handled()
	}
	confirm, ok := ev.Msg.(adp.GetConfirm)
	if !ok {
		return Handled()
	}
	attrs := attributesToRead()
	if confirm.Attribute != attrs[s.index] {
		return Handled()
	}
	if confirm.Status != adp.StatusOK {
		log.Printf("appmanager: GetParams - failed to read %v, status=%v", confirm.Attribute, confirm.Status)
	} else if confirm.Attribute == adp.ReadBackAttribute && len(confirm.Value) == 8 {
		var addr ExtendedAddress
		copy(addr[:], confirm.Value)
		ctx.ExtendedAddr = &addr
	}

	s.index++
	if s.index >= len(attrs) {
		if ctx.IsCoordinator {
			return Transition(StartNetwork)
		}
		return Transition(DiscoverNetwork)
	}
	s.sendCurrent(cs)
	return Handled()
}

func (s *getParamsState) OnExit(ctx *Context) {}
