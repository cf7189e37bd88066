package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// IsAdmin reports whether the claims belong to an operations admin.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == "admin"
}
