package models

// User is a registered account as persisted in users.json.
// Usernames are unique (case-sensitive). Passwords are stored as a salted
// SHA-256 digest; see pkg/auth for the hashing scheme.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Salt         string `json:"salt"`
}
