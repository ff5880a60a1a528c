// Package auth issues and verifies the HS256 access tokens that carry a
// caller's identity, and checks the signed login proof exchanged for them.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
)

// Claims are the registered claims plus the caller identity in base58.
type Claims struct {
	jwt.RegisteredClaims
	Identity string `json:"identity"`
}

func GenerateToken(id identity.Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Identity: id.String(),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func GetIdentityFromToken(tokenString string, secretKey []byte) (identity.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Identity{}, common.ErrTokenExpired
		}
		return identity.Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return identity.Identity{}, common.ErrInvalidToken
	}

	id, err := identity.Parse(claims.Identity)
	if err != nil {
		return identity.Identity{}, common.ErrInvalidToken
	}
	return id, nil
}
