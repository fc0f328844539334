package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client reads out of an access token.
type TokenInfo struct {
	UserName  string
	ExpiresAt time.Time
}

// InspectToken reads the user name and expiry claims of a JWT access token.
// The signature is not checked.
func InspectToken(accessToken string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("inspect token: %w", err)
	}

	var info TokenInfo
	for _, key := range []string{"username", "cognito:username", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			info.UserName = v
			break
		}
	}

	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
