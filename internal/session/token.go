package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// claims is the signed cookie payload. The session ID travels as the JWT ID;
// the server-side store remains authoritative.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// signToken creates an HS256 token referencing session id.
func signToken(secret []byte, id, userID, username string, issued, expires time.Time) (string, error) {
	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// parseToken verifies the signature and expiry and returns the claims.
// Extra parser options are appended, e.g. jwt.WithoutClaimsValidation.
func parseToken(secret []byte, tokenStr string, now func() time.Time, opts ...jwt.ParserOption) (*claims, error) {
	opts = append([]jwt.ParserOption{
		jwt.WithTimeFunc(now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}, opts...)

	token, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.ID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return c, nil
}
