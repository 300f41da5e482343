package types

import "github.com/golang-jwt/jwt/v4"

// Claims carried by traveler session tokens. Subject holds the traveler id.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
