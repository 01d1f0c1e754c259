package models

import "time"

// SystemUsername is the well-known fallback actor attributed to history rows
// when no caller identity is available.
const SystemUsername = "system"

// User exists for actor attribution on audit rows only; credentials and
// authentication live outside this service.
type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
