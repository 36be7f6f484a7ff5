package api

import (
	"net/http"

	"pepuhub/internal/api/respond"
	"pepuhub/pkg/logger"
)

// AdminGuard returns middleware that restricts access to wallets on the
// configured admin allowlist. The caller identifies itself with the
// X-Wallet-Address header; there is no signature verification here, the
// list is a coarse gate in front of the CRUD surface.
func AdminGuard(allowed func(address string) bool, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wallet := r.Header.Get("X-Wallet-Address")
			if wallet == "" {
				respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "wallet address required"})
				return
			}
			if !allowed(wallet) {
				log.Warnw("Admin access denied", "wallet", wallet, "path", r.URL.Path)
				respond.JSON(w, http.StatusForbidden, map[string]string{"error": "wallet not authorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
