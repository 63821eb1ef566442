package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/seatwise/internal/realmcontext"
)

// Identity headers set by the gateway in front of this service. Requests
// arriving without them never reached authentication and are rejected.
const (
	HeaderUserID       = "X-User-ID"
	HeaderRealmID      = "X-Realm-ID"
	HeaderUserEmail    = "X-User-Email"
	HeaderBillingAdmin = "X-Billing-Admin"
)

// ActorContext resolves the acting user from the identity headers and stores
// it in the request context for the service layer.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := snowflake.ParseString(strings.TrimSpace(c.GetHeader(HeaderUserID)))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		realmID, err := snowflake.ParseString(strings.TrimSpace(c.GetHeader(HeaderRealmID)))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actor := realmcontext.Actor{
			UserID:         userID,
			RealmID:        realmID,
			Email:          strings.TrimSpace(c.GetHeader(HeaderUserEmail)),
			IsBillingAdmin: strings.EqualFold(strings.TrimSpace(c.GetHeader(HeaderBillingAdmin)), "true"),
		}
		c.Request = c.Request.WithContext(realmcontext.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// BillingAdminRequired gates the operations that change what a realm pays.
func BillingAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := realmcontext.ActorFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !actor.IsBillingAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}
