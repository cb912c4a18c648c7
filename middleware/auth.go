package middleware

import (
	"strings"

	"food-delivery-broker/errs"
	"food-delivery-broker/httpx"
	"food-delivery-broker/models"
	"food-delivery-broker/policy"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Verifier turns a raw bearer token into an identity
type Verifier interface {
	Verify(raw string) (models.Identity, error)
}

// AuthRequired validates the bearer token and injects the identity into context.
// A missing header is answered with 401, a present but unusable one with 403.
func AuthRequired(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httpx.Error(c, errs.Unauthenticated("Authorization header required (Bearer <token>)"))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			httpx.Error(c, errs.InvalidCredential("Authorization header must be 'Bearer <token>'"))
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// Authorize rejects callers the policy does not allow to perform action.
// Only for actions that need nothing but the caller to decide.
func Authorize(action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.Authorize(GetIdentity(c), action, policy.Resource{}); err != nil {
			httpx.Error(c, err)
			return
		}
		c.Next()
	}
}

// GetIdentity extracts the caller identity from context. The zero Identity
// is returned on routes without AuthRequired and is denied by every policy.
func GetIdentity(c *gin.Context) models.Identity {
	val, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}
	}
	identity, _ := val.(models.Identity)
	return identity
}
