package domain

import "time"

// Session manager states
const (
	StateUninitialized = "uninitialized"
	StateLoading       = "loading"
	StateReady         = "ready"
	StateError         = "error"
)

// Session is the locally cached view of an identity-service session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Snapshot is the read-only view consumers get of the current auth state.
// Exactly one component mutates the underlying state.
type Snapshot struct {
	State         string `json:"state"`
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
	Error         string `json:"error,omitempty"`
}

// SignInResult is the discriminated outcome of a sign-in attempt. Failures
// are carried here; they never escape as errors.
type SignInResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
