package models

import "slices"

// Settings is the read-only instance configuration loaded from settings.json
// at startup. It is never written back by the server.
type Settings struct {
	APName     string   `json:"ap_name"`
	APPassword string   `json:"ap_password"`
	AdminUsers []string `json:"admin_users"`
}

// DefaultSettings returns the settings used when settings.json is missing or
// unreadable.
func DefaultSettings() Settings {
	return Settings{
		APName:     "AscendoTrainBoard",
		APPassword: "plezaj-gor",
		AdminUsers: []string{"admin"},
	}
}

// IsAdmin reports whether the given username is listed as an administrator.
func (s Settings) IsAdmin(username string) bool {
	return slices.Contains(s.AdminUsers, username)
}
