// Package middleware contain utilities middleware code
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brainiax-backend/internal/auth"
	"brainiax-backend/internal/config"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

// Identity is the authenticated admin attached to the request context. Both
// fields are empty when the request authenticated with the static secret.
type Identity struct {
	ID       string
	Username string
}

const identityKey = "admin"

// AdminFromContext returns the identity a credential check attached, if any.
func AdminFromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// credential inspects a request and either produces an identity (nil for the
// static-secret path, which carries no identity beyond "is admin") or reports
// that it does not apply.
type credential func(c *gin.Context) (*Identity, bool)

// staticSecret matches the legacy shared token from the X-Admin-Token header
// or the adminToken query parameter.
func staticSecret(cfg *config.Config) credential {
	return func(c *gin.Context) (*Identity, bool) {
		if cfg.AdminToken == "" {
			return nil, false
		}
		legacy := c.GetHeader("X-Admin-Token")
		if legacy == "" {
			legacy = c.Query("adminToken")
		}
		if legacy != cfg.AdminToken {
			return nil, false
		}
		return nil, true
	}
}

// queryToken verifies a signed token passed as a query parameter. EventSource
// clients cannot set headers, so the streaming endpoint authenticates this
// way.
func queryToken(cfg *config.Config) credential {
	return func(c *gin.Context) (*Identity, bool) {
		encoded := c.Query("adminToken")
		if encoded == "" || cfg.SecretKey == "" {
			return nil, false
		}
		claims, err := auth.ValidateToken(cfg.SecretKey, encoded)
		if err != nil {
			return nil, false
		}
		return &Identity{ID: claims.Subject, Username: claims.Username}, true
	}
}

// RequireAdmin guards admin-only endpoints. Credential paths are tried in
// order: static shared secret, signed token in the query string, then a
// bearer token; the first success wins and the bearer path decides the
// failure status.
func RequireAdmin(cfg *config.Config) gin.HandlerFunc {
	chain := []credential{staticSecret(cfg), queryToken(cfg)}

	return func(c *gin.Context) {
		for _, check := range chain {
			identity, ok := check(c)
			if !ok {
				continue
			}
			if identity != nil {
				c.Set(identityKey, *identity)
			}
			c.Next()
			return
		}

		encoded, err := utilities.ExtractBearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utilities.MessageResponse{Message: "Unauthorized"})
			return
		}

		if cfg.SecretKey == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "JWT not configured"})
			return
		}

		claims, err := auth.ValidateToken(cfg.SecretKey, encoded)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utilities.MessageResponse{Message: "Unauthorized"})
			return
		}

		c.Set(identityKey, Identity{ID: claims.Subject, Username: claims.Username})
		c.Next()
	}
}

// SettingsAuth lets the hiring-banner key through without credentials and
// applies the admin gate to every other settings key.
func SettingsAuth(cfg *config.Config) gin.HandlerFunc {
	admin := RequireAdmin(cfg)
	return func(c *gin.Context) {
		if c.Param("key") == model.SettingHiringBanner {
			c.Next()
			return
		}
		admin(c)
	}
}
