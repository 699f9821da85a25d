// Package auth is the boundary to the external identity provider. The
// services never authenticate anyone; they consume an Actor resolved here.
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/joblane/joblane/internal/apperr"
)

// Actor is an authenticated caller identity attached to a request.
type Actor struct {
	ID string
}

// Provider resolves a request to an authenticated Actor, or reports the
// caller as anonymous.
type Provider interface {
	Resolve(c *gin.Context) (Actor, bool)
}

// HeaderProvider trusts a header set by the upstream identity layer
// (reverse proxy or session gateway). An empty header means anonymous.
type HeaderProvider struct {
	Header string
}

func (p HeaderProvider) Resolve(c *gin.Context) (Actor, bool) {
	id := c.GetHeader(p.Header)
	if id == "" {
		return Actor{}, false
	}
	return Actor{ID: id}, true
}

const actorKey = "auth.actor"

// Middleware resolves the caller once per request and stashes the Actor in
// the gin context for handlers to pick up.
func Middleware(p Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := p.Resolve(c); ok {
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

// ActorFrom returns the authenticated Actor for the request, if any.
func ActorFrom(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

// RequireActor returns the Actor or ErrUnauthorized when the caller is
// anonymous.
func RequireActor(c *gin.Context) (Actor, error) {
	actor, ok := ActorFrom(c)
	if !ok {
		return Actor{}, apperr.ErrUnauthorized
	}
	return actor, nil
}
