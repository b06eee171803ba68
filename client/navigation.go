package client

// Screen is what the front-end renders for a given navigation state.
type Screen string

const (
	ScreenSignedOut      Screen = "signed-out"
	ScreenProfileSetup   Screen = "profile-setup"
	ScreenChildSelection Screen = "child-selection"
	ScreenHome           Screen = "home"
)

// Navigator is the screen-selection state machine. It is event driven and
// single threaded: one submission may be in flight at a time, and a failed
// request never changes the screen, the error text renders in place and the
// user resubmits by hand.
type Navigator struct {
	screen          Screen
	authenticated   bool
	setupComplete   bool
	selectedChildId string
	lastError       string
	busy            bool
}

// NewNavigator restores navigation state from the stored token, if any. A
// stored token is trusted without proof of validity; a stale one only
// surfaces later as a failed server call.
func NewNavigator(storedToken string) *Navigator {
	n := &Navigator{screen: ScreenSignedOut}
	if storedToken != "" {
		n.authenticated = true
		n.screen = ScreenProfileSetup
	}
	return n
}

func (n *Navigator) Screen() Screen {
	return n.screen
}

func (n *Navigator) SelectedChildId() string {
	return n.selectedChildId
}

func (n *Navigator) LastError() string {
	return n.lastError
}

// Begin marks a submission in flight. It reports false while another request
// is outstanding, which is how the UI disables its submit control.
func (n *Navigator) Begin() bool {
	if n.busy {
		return false
	}
	n.busy = true
	n.lastError = ""
	return true
}

// AuthSucceeded follows a successful register or login. An existing identity
// skips profile setup entirely.
func (n *Navigator) AuthSucceeded(isNewUser bool) {
	n.finish()
	n.authenticated = true
	n.setupComplete = !isNewUser
	if n.setupComplete {
		n.screen = ScreenChildSelection
	} else {
		n.screen = ScreenProfileSetup
	}
}

func (n *Navigator) ProfileCompleted() {
	n.finish()
	if n.screen != ScreenProfileSetup {
		return
	}
	n.setupComplete = true
	n.screen = ScreenChildSelection
}

// ChildSelected reports whether the selection was accepted. A child id can
// only be held once the caller is authenticated with a completed profile.
func (n *Navigator) ChildSelected(childId string) bool {
	n.finish()
	if !n.authenticated || !n.setupComplete || childId == "" {
		return false
	}
	n.selectedChildId = childId
	n.screen = ScreenHome
	return true
}

// Fail records the error on the current screen. The screen does not change,
// there is no automatic retry and no forced sign-out on auth failures.
func (n *Navigator) Fail(message string) {
	n.finish()
	n.lastError = message
}

func (n *Navigator) finish() {
	n.busy = false
}
