package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the authenticated principal attached to each request.
type JWTClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Staff    bool   `json:"staff"`
	jwt.RegisteredClaims
}
