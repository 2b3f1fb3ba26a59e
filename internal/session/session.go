// Package session resolves the acting identity and carries it as an explicit
// context object across screens. All role-dependent behavior keys off the
// resolved role; nothing renders role-specific state before Resolve succeeds.
package session

import (
	"context"

	"go.uber.org/zap"

	"reliefnet/internal/api"
)

// IdentityGateway is the slice of the remote gateway the resolver needs.
type IdentityGateway interface {
	Profile(ctx context.Context) (api.Identity, error)
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) (api.Identity, error)
}

// Context is the ambient session state: the resolved identity, created on
// role resolution and torn down on sign-out. It is passed to components at
// construction rather than read from a global.
type Context struct {
	Identity api.Identity
}

// Role returns the acting role.
func (c *Context) Role() api.Role { return c.Identity.Role }

// IsNGO reports whether the acting user manages relief resources.
func (c *Context) IsNGO() bool { return c.Identity.Role == api.RoleNGO }

// Resolver fetches the identity once per mount. No retry: a fault surfaces
// once per attempt and the caller decides what to do (a 401 means sign-in).
type Resolver struct {
	gateway IdentityGateway
	log     *zap.Logger
}

// NewResolver builds a resolver. A nil logger is replaced with a no-op one.
func NewResolver(gateway IdentityGateway, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{gateway: gateway, log: log}
}

// Resolve fetches the acting identity and wraps it in a session context.
func (r *Resolver) Resolve(ctx context.Context) (*Context, error) {
	identity, err := r.gateway.Profile(ctx)
	if err != nil {
		r.log.Warn("identity resolution failed", zap.Error(err))
		return nil, err
	}
	r.log.Debug("identity resolved",
		zap.String("user", identity.ID),
		zap.String("role", string(identity.Role)))
	return &Context{Identity: identity}, nil
}

// UpdateProfile submits a name/number (or password) change and refreshes the
// session context from the server's response.
func (r *Resolver) UpdateProfile(ctx context.Context, sess *Context, update api.ProfileUpdate) error {
	identity, err := r.gateway.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	sess.Identity = identity
	return nil
}
