package appmanager

// idleState waits for the one-shot Startup signal before driving the
// modem through its initialization lifecycle.
type idleState struct{}

func newIdleState() *idleState {
	return &idleState{}
}

func (s *idleState) OnEnter(cs CommandSender, ctx *Context) Response {
	return Handled()
}

func (s *idleState) OnEvent(cs CommandSender, event any, ctx *Context) Response {
	if _, ok := event.(StartupEvent); ok {
		return Transition(StackInitialize)
	}
	return Handled()
}

func (s *idleState) OnExit(ctx *Context) {}
