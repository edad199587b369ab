package appmanager

import (
	"log"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
	"github.com/nano-e/g3usi-adapter/pkg/usi"
)

// setParamsState programs the modem's PIB attributes one at a time,
// driven entirely by SetConfirm responses.
type setParamsState struct {
	index int
}

func newSetParamsState() *setParamsState {
	return &setParamsState{}
}

func (s *setParamsState) OnEnter(cs CommandSender, ctx *Context) Response {
	s.index = 0
	s.sendCurrent(cs)
	return Handled()
}

func (s *setParamsState) sendCurrent(cs CommandSender) {
	attr := adp.DefaultPIBAttributes[s.index]
	log.Printf("appmanager: SetParams - setting attribute %v", attr)
	cs.SendCmd(usi.UsiOut(adp.EncodeSetRequest(attr, 0, defaultValueFor(attr))))
}

func (s *setParamsState) OnEvent(cs CommandSender, event any, ctx *Context) Response {
	ev, ok := event.(AdpEvent)
	if !ok {
		return Handled()
	}
	confirm, ok := ev.Msg.(adp.SetConfirm)
	if !ok {
		return Handled()
	}
	if confirm.Attribute != adp.DefaultPIBAttributes[s.index] {
		// Stale or out-of-order confirm; ignore.
		return Handled()
	}
	if confirm.Status != adp.StatusOK {
		log.Printf("appmanager: SetParams - failed to set %v, status=%v", confirm.Attribute, confirm.Status)
	}
	s.index++
	if s.index >= len(adp.DefaultPIBAttributes) {
		return Transition(GetParams)
	}
	s.sendCurrent(cs)
	return Handled()
}

func (s *setParamsState) OnExit(ctx *Context) {}

// defaultValueFor returns the value this adapter programs for attr.
// Real deployments would source these from configuration; a single
// conservative default keeps the lifecycle exercise self-contained.
func defaultValueFor(attr adp.PIBAttribute) []byte {
	switch attr {
	case adp.AttrSecurityLevel:
		return []byte{0x00}
	case adp.AttrMaxHops:
		return []byte{0x08}
	default:
		return []byte{0x00, 0x00}
	}
}
