package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/bookstore/internal/api"
	"github.com/RoyceAzure/lab/bookstore/internal/api/errcode"
)

// Principal 上游閘道驗證完 token 後注入的身份
// 本服務信任閘道轉發的 X-User-* header，不自己驗 token
type Principal struct {
	UserID int
	Email  string
	Role   string
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(r.Header.Get("X-User-Id"))
		if err != nil || userID <= 0 {
			api.ErrorJSON(w, http.StatusUnauthorized, errcode.Unauthenticated, "missing authenticated principal")
			return
		}

		role := r.Header.Get("X-User-Role")
		if role == "" {
			role = "customer"
		}

		principal := &Principal{
			UserID: userID,
			Email:  r.Header.Get("X-User-Email"),
			Role:   role,
		}
		if holder, ok := r.Context().Value(principalHolderKey).(*principalHolder); ok {
			holder.principal = principal
		}
		ctx := context.WithValue(r.Context(), PrincipalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetPrincipal(r *http.Request) *Principal {
	if v := r.Context().Value(PrincipalKey); v != nil {
		return v.(*Principal)
	}
	return nil
}
