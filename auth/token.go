// Package auth verifies the access tokens issued by the external auth
// provider and carries the authenticated user through request contexts.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vidTube/domain"
	"vidTube/errs"
)

// Claims are the claims of an access token. The subject is the user's ID,
// the other claims mirror the user's public profile.
type Claims struct {
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 signed access tokens with a shared secret.
// This app never issues tokens itself.
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewVerifier returns a Verifier. If issuer is not empty, tokens must carry it.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
		leeway: 30 * time.Second,
	}
}

// Verify checks the signature and the validity period of a token and returns
// the user it was issued for.
func (v *Verifier) Verify(raw string) (*domain.User, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.Wrap(err, errs.EUNAUTHENTICATED, "Your session has expired. Please log in again.")
		}
		return nil, errs.Wrap(err, errs.EUNAUTHENTICATED, "Invalid access token.")
	}
	if !token.Valid {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "Invalid access token.")
	}
	if !domain.ValidID(claims.Subject) {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "Access token has an invalid subject.")
	}
	return &domain.User{
		Model:     domain.Model{ID: claims.Subject},
		Username:  claims.Username,
		FullName:  claims.FullName,
		AvatarURL: claims.AvatarURL,
	}, nil
}
