// Package domain holds the values the auth core passes around: request
// credentials, the identity recovered from a bearer token, and response payloads.
package domain

// Credentials is a login or register request. Never persisted or logged.
type Credentials struct {
	Email    string
	Username string
	Password string
}

// Identity is the authenticated caller, attached to a request's context by the
// bearer guard and discarded when the request completes.
type Identity struct {
	ID       int64
	Email    string
	Username string
}

// AuthData is the payload returned by login and register.
type AuthData struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// VerifyData is the identity echo returned by verify. Absent identifiers are omitted.
type VerifyData struct {
	ID       int64  `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}
