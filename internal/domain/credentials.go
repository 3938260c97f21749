package domain

// Credentials are sent to the identity endpoints and never retained.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
