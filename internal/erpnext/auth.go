package erpnext

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/roivaz/erpnext-mcp/internal/errnorm"
)

const loggedInMessage = "Logged In"

// Login opens a session with username and password. It returns true only
// when the server confirms the login, and from then on the client is
// authenticated. A rejected login is not retried.
func (c *Client) Login(ctx context.Context, username, password string) (bool, error) {
	const op = "Failed to authenticate with ERPNext"
	if username == "" || password == "" {
		return false, newError(op, errnorm.Context{Err: errMissingCredentials})
	}

	body := map[string]string{"usr": username, "pwd": password}
	raw, err := c.do(ctx, op, http.MethodPost, methodPath("login"), nil, body)
	if err != nil {
		return false, err
	}
	if gjson.GetBytes(raw, "message").String() != loggedInMessage {
		c.log.Info("login not confirmed by server", "user", username)
		return false, nil
	}

	c.authenticated.Store(true)
	c.log.Info("logged in to erpnext", "user", username)
	return true, nil
}

// LoggedUser returns the user the current credentials act as.
func (c *Client) LoggedUser(ctx context.Context) (string, error) {
	var user string
	err := c.fetch(ctx, "Failed to get logged user", http.MethodGet, methodPath("frappe.auth.get_logged_user"), nil, nil, "message", &user)
	return user, err
}
