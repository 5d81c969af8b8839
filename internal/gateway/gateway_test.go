package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// backends de teste que apenas identificam quem atendeu a chamada
func testGateway(t *testing.T) (http.Handler, *httptest.Server, *httptest.Server) {
	t.Helper()
	adminSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("admin:" + r.URL.Path))
	}))
	t.Cleanup(adminSrv.Close)
	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("user:" + r.URL.Path))
	}))
	t.Cleanup(userSrv.Close)

	g, err := New(zap.NewNop(), adminSrv.URL, userSrv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return g.Router(), adminSrv, userSrv
}

func doReq(h http.Handler, path, userID, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGatewayRequiresIdentity(t *testing.T) {
	h, _, _ := testGateway(t)
	if w := doReq(h, "/api/games/open", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestGatewayUnknownRoleRejected(t *testing.T) {
	h, _, _ := testGateway(t)
	// claim fora do enum nunca passa, nem na área do usuário
	if w := doReq(h, "/api/games/open", "u1", "root"); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestGatewayAdminAreaRequiresSuperAdmin(t *testing.T) {
	h, _, _ := testGateway(t)

	if w := doReq(h, "/api/admin/games", "u1", "user"); w.Code != http.StatusForbidden {
		t.Fatalf("user on admin area: status = %d, want 403", w.Code)
	}

	w := doReq(h, "/api/admin/games", "a1", "super_admin")
	if w.Code != http.StatusOK {
		t.Fatalf("super_admin: status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "admin:/games" {
		t.Errorf("proxied to %q, want admin:/games", got)
	}
}

func TestGatewayUserArea(t *testing.T) {
	h, _, _ := testGateway(t)

	// papel ausente conta como user comum
	w := doReq(h, "/api/games/open", "u1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "user:/games/open" {
		t.Errorf("proxied to %q, want user:/games/open", got)
	}

	// super_admin também acessa a área do usuário
	if w := doReq(h, "/api/bets", "a1", "super_admin"); w.Code != http.StatusOK {
		t.Fatalf("admin on user area: status = %d, want 200", w.Code)
	}
}
