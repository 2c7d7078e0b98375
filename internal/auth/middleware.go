package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/models"
	"saas_admin/internal/platform/ctxutil"
)

const claimsKey = "claims"

// UserFinder loads the user behind a token.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": msg, "code": code}})
}

// JWT returns a Gin middleware that validates JWT tokens from
// either the Authorization header or a "token" cookie and verifies
// that the user still exists and is Active.
func JWT(tokens *TokenIssuer, users UserFinder, denylist Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader("Authorization")
		if tokenStr == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenStr = cookie
			}
		}
		if strings.TrimSpace(tokenStr) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		ctx := c.Request.Context()
		if denylist != nil {
			revoked, err := denylist.IsRevoked(ctx, claims.TokenID())
			if err != nil {
				abort(c, http.StatusServiceUnavailable, "unavailable", "token check unavailable")
				return
			}
			if revoked {
				abort(c, http.StatusUnauthorized, "unauthorized", "token has been revoked")
				return
			}
		}

		user, err := users.FindByID(ctx, claims.UserID)
		if err != nil {
			abort(c, http.StatusInternalServerError, "internal", "internal server error")
			return
		}
		if user == nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "user not found")
			return
		}
		if user.Status != models.UserActive {
			abort(c, http.StatusForbidden, "forbidden", "user is "+strings.ToLower(user.Status.String()))
			return
		}

		rd := ctxutil.GetRequestData(ctx)
		if rd == nil {
			rd = &ctxutil.RequestData{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
			c.Request = c.Request.WithContext(ctxutil.WithRequestData(ctx, rd))
		}
		rd.UserID = user.ID
		rd.AccountID = user.AccountID
		rd.Email = user.Email

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by JWT, or nil on public routes.
func ClaimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	cl, _ := v.(*Claims)
	return cl
}

// SetTokenCookie mirrors the bearer token into an HttpOnly cookie for browser clients.
func SetTokenCookie(c *gin.Context, token string, maxAgeSeconds int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, maxAgeSeconds, "/", "", secure, true)
}

func ClearTokenCookie(c *gin.Context, secure bool) {
	c.SetCookie("token", "", -1, "/", "", secure, true)
}
