package authentication

import (
	"context"
	"net/http"
	"strings"

	"github.com/MiladArbabi/aurora-baby-mvp/log"
	"github.com/MiladArbabi/aurora-baby-mvp/shared"
)

type Authenticator struct {
	Tokens interface {
		Verify(tokenString string) (string, error)
	} `inject:""`
	Logger *log.Logger `inject:""`
}

// Verify guards a protected route. A missing token responds 401, a token that
// fails signature or expiry checks responds 403; the two cases are kept
// distinguishable on purpose.
func (a *Authenticator) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authorizationHeader := req.Header.Get("Authorization")
		if authorizationHeader == "" {
			shared.HttpError(w, "No token provided", http.StatusUnauthorized)
			return
		}

		bearerToken := strings.Split(authorizationHeader, " ")
		if len(bearerToken) != 2 {
			shared.HttpError(w, "No token provided", http.StatusUnauthorized)
			return
		}

		userId, err := a.Tokens.Verify(bearerToken[1])
		if err != nil {
			a.Logger.Warn(req.Context(), "rejected bearer token", "reason", err.Error())
			shared.HttpError(w, "Invalid token", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(req.Context(), log.ContextKeyUserId, userId)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// GetUserId returns the identity stored by Verify, empty when unauthenticated.
func GetUserId(ctx context.Context) string {
	if userId, ok := ctx.Value(log.ContextKeyUserId).(string); ok {
		return userId
	}
	return ""
}
