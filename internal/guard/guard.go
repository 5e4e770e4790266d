// Package guard is the navigation decision core: a pure state machine over
// the auth bootstrap, shared by the HTTP layer and testable without any
// transport attached.
package guard

import "time"

type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// ParseState is the inverse of State.String for states arriving over
// the wire.
func ParseState(s string) (State, bool) {
	switch s {
	case "loading":
		return StateLoading, true
	case "unauthenticated":
		return StateUnauthenticated, true
	case "authenticated":
		return StateAuthenticated, true
	}
	return StateLoading, false
}

type Action int

const (
	ActionAllow Action = iota
	ActionRedirect
	ActionShowLoading
	// ActionRetryPrompt means loading has outlived its budget; the client
	// is offered a manual reload, never an automatic retry.
	ActionRetryPrompt
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirect:
		return "redirect"
	case ActionShowLoading:
		return "show_loading"
	case ActionRetryPrompt:
		return "retry_prompt"
	}
	return "unknown"
}

// DefaultLoadingLimit is the watchdog budget used when the caller does
// not configure one.
const DefaultLoadingLimit = 10 * time.Second

type Decision struct {
	Action Action
	Target string // set when Action is ActionRedirect
}

const (
	RootPath   = "/"
	HomePath   = "/home"
	SignInPath = "/auth"
)

// Paths reachable without a session.
var publicPaths = map[string]struct{}{
	SignInPath:        {},
	"/subscribe":      {},
	"/reset-password": {},
	"/terms":          {},
}

func IsPublic(path string) bool {
	_, ok := publicPaths[path]
	return ok
}

// Decide maps (state, path) to a navigation decision.
func Decide(state State, path string) Decision {
	switch state {
	case StateLoading:
		return Decision{Action: ActionShowLoading}
	case StateUnauthenticated:
		if IsPublic(path) {
			return Decision{Action: ActionAllow}
		}
		return Decision{Action: ActionRedirect, Target: SignInPath}
	case StateAuthenticated:
		if path == RootPath {
			return Decision{Action: ActionRedirect, Target: HomePath}
		}
		return Decision{Action: ActionAllow}
	}
	return Decision{Action: ActionRedirect, Target: SignInPath}
}

// DecideWithDeadline is Decide plus the loading watchdog: once loading has
// persisted past limit, the decision becomes a retry prompt.
func DecideWithDeadline(state State, path string, loadingFor, limit time.Duration) Decision {
	if state == StateLoading && limit > 0 && loadingFor >= limit {
		return Decision{Action: ActionRetryPrompt}
	}
	return Decide(state, path)
}
