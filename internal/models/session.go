package models

import "time"

// Session is the token bundle handed back on sign-in/sign-up. There is no
// silent refresh: once ExpiresAt passes, the client signs in again.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
