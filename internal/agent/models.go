package agent

import "time"

// Agent is one CRM account: an admin or a call-center agent. Each agent may
// hold a binding to one SMS gateway device; the credentials live here
// because the device belongs to the agent, not the platform.
type Agent struct {
	ID           string `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Name         string `json:"name" db:"name"`
	Role         string `json:"role" db:"role"`

	GatewayURL      string `json:"gateway_url,omitempty" db:"gateway_url"`
	GatewayUsername string `json:"gateway_username,omitempty" db:"gateway_username"`
	GatewayPassword string `json:"-" db:"gateway_password"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
