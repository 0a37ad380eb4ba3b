package models

import "github.com/golang-jwt/jwt/v5"

// UserRole describes marketplace account roles.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleBusiness   UserRole = "BUSINESS"
	RoleCustomer   UserRole = "CUSTOMER"
)

// JWTClaims represents the JWT payload for access tokens issued by the
// marketplace auth tier. This service only validates them.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}
