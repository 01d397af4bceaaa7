package jwttoken

import (
	"jotter/pkg/platform/middleware/auth"
)

// MiddlewareAdapter lets RequireAuth validate tokens without knowing the claim layout.
type MiddlewareAdapter struct {
	service *JWTService
}

func NewMiddlewareAdapter(service *JWTService) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*auth.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &auth.JWTClaims{Subject: claims.Subject, JTI: claims.ID}, nil
}
