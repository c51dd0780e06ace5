package api

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/baglist-backend/errs"
)

// TokenVerifier checks HS256 bearer tokens issued by the account service.
// The subject claim carries the account id.
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret, issuer string) TokenVerifier {
	return TokenVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify returns the account id of a valid token.
func (v TokenVerifier) Verify(raw string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", errs.NewExpiredTokenError()
	case err != nil:
		return "", errs.NewInvalidTokenError()
	case claims.Subject == "":
		return "", errs.NewInvalidTokenError()
	}
	return claims.Subject, nil
}

// Sign issues a token for accountID. The account service owns issuance in production;
// this is used by local tooling and tests.
func (v TokenVerifier) Sign(accountID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
