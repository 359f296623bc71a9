package models

import "github.com/golang-jwt/jwt/v5"

// Roles carried by account-service tokens.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// JWTClaims represents the access token payload issued by the account service.
type JWTClaims struct {
	UserID       string `json:"user_id"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}
