package appmanager

import (
	"log"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
	"github.com/nano-e/g3usi-adapter/pkg/usi"
)

// defaultBand is the PLC band AdpInitialize requests. The real value
// is a deployment choice (CENELEC-A, FCC, ...); out of scope here, so
// a single fixed default is used.
const defaultBand byte = 0x02

// stackInitializeState issues AdpInitialize and waits for its
// confirm before moving on to PIB programming.
type stackInitializeState struct{}

func newStackInitializeState() *stackInitializeState {
	return &stackInitializeState{}
}

func (s *stackInitializeState) OnEnter(cs CommandSender, ctx *Context) Response {
	log.Printf("appmanager: StackInitialize - requesting AdpInitialize")
	cs.SendCmd(usi.UsiOut(adp.EncodeInitialize(defaultBand)))
	return Handled()
}

func (s *stackInitializeState) OnEvent(cs CommandSender, event any, ctx *Context) Response {
	ev, ok := event.(AdpEvent)
	if !ok {
		return Handled()
	}
	confirm, ok := ev.Msg.(adp.InitializeConfirm)
	if !ok {
		return Handled()
	}
	if confirm.Status != adp.StatusOK {
		log.Printf("appmanager: AdpInitialize failed, status=%v", confirm.Status)
		return Handled()
	}
	return Transition(SetParams)
}

func (s *stackInitializeState) OnExit(ctx *Context) {}
