package api

import "context"

// Credentials is the sign-in request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login establishes a session. The server sets the session cookie; the
// gateway persists it for later invocations.
func (c *Client) Login(ctx context.Context, creds Credentials) (Identity, error) {
	var id Identity
	if err := c.post(ctx, "/users/login", creds, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Logout tears the session down server-side and drops the local cookie.
func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, "/users/logout", nil, nil)
	// The local credential is gone either way.
	c.jar.clear()
	return err
}

// Profile fetches the acting identity.
func (c *Client) Profile(ctx context.Context) (Identity, error) {
	var id Identity
	if err := c.get(ctx, "/users/getUserProfile", nil, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// UpdateProfile submits a partial identity update (name/number or password)
// and returns the refreshed identity.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (Identity, error) {
	var id Identity
	if err := c.patch(ctx, "/users/update", update, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// DeleteAccount removes the account permanently.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.delete(ctx, "/users/delete"); err != nil {
		return err
	}
	c.jar.clear()
	return nil
}
