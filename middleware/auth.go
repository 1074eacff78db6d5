package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rottenbot/inference-service/utils"
)

// ContextUserUIDKey is the key used to store the authenticated user's uid in
// the Gin context.
const ContextUserUIDKey = "user_uid"

// RevocationCheck reports whether a token identifier was revoked. The error
// distinguishes a denylist outage from a clean miss.
type RevocationCheck func(jti string) (bool, error)

// AuthRequired gates a route on a valid bearer access token. Every
// authentication failure answers 401 with the same body; the concrete reason
// is logged only. A denylist lookup failure is a dependency failure and
// answers 500, never a pass.
func AuthRequired(isRevoked RevocationCheck) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			rejectUnauthenticated(ctx, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			rejectUnauthenticated(ctx, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			rejectUnauthenticated(ctx, "empty bearer token")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			rejectUnauthenticated(ctx, "invalid token: "+err.Error())
			return
		}

		if claims.Refresh {
			rejectUnauthenticated(ctx, "refresh token presented where access token required")
			return
		}

		revoked, err := isRevoked(claims.ID)
		if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Errorf("token revocation check failed: %v", err)
			}
			utils.Detail(ctx, http.StatusInternalServerError, utils.MsgInternalError)
			ctx.Abort()
			return
		}
		if revoked {
			rejectUnauthenticated(ctx, "token revoked")
			return
		}

		ctx.Set(ContextUserUIDKey, claims.UserUID)
		ctx.Next()
	}
}

func rejectUnauthenticated(ctx *gin.Context, reason string) {
	if utils.Sugar != nil {
		utils.Sugar.Debugf("request rejected: %s", reason)
	}
	utils.Detail(ctx, http.StatusUnauthorized, utils.MsgNotAuthenticated)
	ctx.Abort()
}
