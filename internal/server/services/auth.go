package services

import (
	"context"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/logging"
	"github.com/mcamera/school-of-solana-season-8/internal/server/auth"
	"github.com/mcamera/school-of-solana-season-8/internal/server/config"
)

const OpLogin = "login"

// AuthService exchanges a signed login proof for an access token bound to
// the caller's identity.
type AuthService struct {
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewAuthService(cfg *config.Config, l logging.Logger) *AuthService {
	return &AuthService{
		logger:                      l.With("module", "auth_service"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Login verifies that sig is id's signature over the login message for
// signedAt and returns a fresh access token.
func (s *AuthService) Login(ctx context.Context, id identity.Identity, signedAt time.Time, sig []byte) (string, error) {
	if id.IsZero() {
		return "", common.Op(OpLogin, common.ErrInvalidIdentity)
	}
	if err := auth.VerifyLogin(id, signedAt, sig, s.now()); err != nil {
		s.logger.Warn(ctx, "login rejected", "identity", id.String(), "error", err)
		return "", common.Op(OpLogin, err)
	}

	token, err := auth.GenerateToken(id, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.Op(OpLogin, common.ErrorInternal)
	}

	s.logger.Info(ctx, "login", "identity", id.String())
	return token, nil
}
