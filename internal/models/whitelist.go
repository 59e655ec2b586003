package models

import "time"

// WhitelistEntry is an email permitted to authenticate. Email is the unique
// key, stored lowercased.
type WhitelistEntry struct {
	Email   string    `json:"email"`
	AddedBy string    `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
	Notes   *string   `json:"notes"`
}
