// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/macs03/dynamicweb/model"
)

const (
	// ClaimsKey holds the parsed token claims (map[string]any).
	ClaimsKey = "claims"
	userKey   = "auth_user"
)

func claims(c echo.Context) (map[string]any, error) {
	m, ok := c.Get(ClaimsKey).(map[string]any)
	if !ok || m == nil {
		return nil, errors.New("no jwt claims in context")
	}
	return m, nil
}

func UserIDFromContext(c echo.Context) (int64, error) {
	m, err := claims(c)
	if err != nil {
		return 0, err
	}
	if f, ok := m["sub"].(float64); ok && f > 0 {
		return int64(f), nil
	}
	return 0, errors.New("sub missing in claims")
}

func EmailFromContext(c echo.Context) (string, error) {
	m, err := claims(c)
	if err != nil {
		return "", err
	}
	if s, ok := m["email"].(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("email missing in claims")
}

// SetUser stores the authenticated user for the rest of the request.
func SetUser(c echo.Context, u model.User) {
	c.Set(userKey, u)
	c.Set("user_id", u.ID)
}

// User returns the user stored by SetUser.
func User(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}
