package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/bookstore/internal/api"
	"github.com/RoyceAzure/lab/bookstore/internal/api/errcode"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
)

// RequirePermission 以 role -> permission 靜態表做授權
// action 格式 "resource:action"
func RequirePermission(permissions service.IPermissionService, action string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r)
			if principal == nil {
				api.ErrorJSON(w, http.StatusUnauthorized, errcode.Unauthenticated, "missing authenticated principal")
				return
			}
			if !permissions.Can(principal.Role, action) {
				api.ErrorJSON(w, http.StatusForbidden, errcode.Forbidden, "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
