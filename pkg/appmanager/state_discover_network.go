package appmanager

import (
	"log"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
	"github.com/nano-e/g3usi-adapter/pkg/usi"
)

// discoverScanSeconds is how long the modem is asked to scan for
// neighbouring PANs before reporting back.
const discoverScanSeconds = 5

// discoverNetworkState scans for PANs to join. On success it stashes
// the chosen PAN in Context and moves to JoinNetwork; on failure (or
// no networks found) it moves to NetworkDiscoverFailed, which retries
// on the next heartbeat.
type discoverNetworkState struct{}

func newDiscoverNetworkState() *discoverNetworkState {
	return &discoverNetworkState{}
}

func (s *discoverNetworkState) OnEnter(cs CommandSender, ctx *Context) Response {
	log.Printf("appmanager: DiscoverNetwork - scanning for PANs")
	cs.SendCmd(usi.UsiOut(adp.EncodeDiscover(discoverScanSeconds)))
	return Handled()
}

func (s *discoverNetworkState) OnEvent(cs CommandSender, event any, ctx *Context) Response {
	ev, ok := event.(AdpEvent)
	if !ok {
		return Handled()
	}
	confirm, ok := ev.Msg.(adp.DiscoverConfirm)
	if !ok {
		return Handled()
	}
	if confirm.Status != adp.StatusOK || len(confirm.Networks) == 0 {
		log.Printf("appmanager: DiscoverNetwork - no networks found")
		return Transition(NetworkDiscoverFailed)
	}
	chosen := confirm.Networks[0]
	ctx.PendingPANId = chosen.PANId
	ctx.PendingLBA = chosen.LBA
	return Transition(JoinNetwork)
}

func (s *discoverNetworkState) OnExit(ctx *Context) {}
