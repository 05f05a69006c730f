package auth

import "scribe/internal/domain/models"

// JWTVerifier validates access tokens and extracts their claims.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*models.AccessClaims, error)
	Close() error
}
