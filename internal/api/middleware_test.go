package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pepuhub/internal/adapters/config"
	"pepuhub/pkg/logger"
)

func TestAdminGuard(t *testing.T) {
	admin := config.AdminConfig{AllowedWallets: []string{
		"0xAAAA000000000000000000000000000000000001",
	}}

	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := AdminGuard(admin.Allowed, logger.Get())(next)

	tests := []struct {
		name       string
		wallet     string
		wantStatus int
		wantNext   bool
	}{
		{"no header", "", http.StatusUnauthorized, false},
		{"unknown wallet", "0xBBBB000000000000000000000000000000000002", http.StatusForbidden, false},
		{"allowed wallet", "0xAAAA000000000000000000000000000000000001", http.StatusNoContent, true},
		{"allowed wallet different casing", strings.ToLower("0xAAAA000000000000000000000000000000000001"), http.StatusNoContent, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodPost, "/api/admin/partners", nil)
			if tt.wallet != "" {
				req.Header.Set("X-Wallet-Address", tt.wallet)
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, reached)
		})
	}
}
