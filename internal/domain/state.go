package domain

// Platform is the social network a URL is expected from
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
)

// Valid reports whether the platform is known
func (p Platform) Valid() bool {
	return p == PlatformTwitter || p == PlatformInstagram
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle        UserState = "idle"
	StateAwaitingURL UserState = "awaiting_url"
)

// StateData holds the transient conversation state of a user
type StateData struct {
	State    UserState
	Platform Platform
}

// Idle returns the idle state
func Idle() StateData {
	return StateData{State: StateIdle}
}

// AwaitingURL returns the state of waiting for a link from the given platform
func AwaitingURL(p Platform) StateData {
	return StateData{State: StateAwaitingURL, Platform: p}
}
