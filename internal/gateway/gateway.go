package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/identity"
)

// Gateway é a borda de acesso: resolve o papel da sessão e roteia para o
// serviço certo. O provedor de autenticação é colaborador externo; aqui
// chegam apenas os headers de identidade já validados por ele.
type Gateway struct {
	log   *zap.Logger
	admin *httputil.ReverseProxy // campaign-service
	user  *httputil.ReverseProxy // bet-service
}

func New(log *zap.Logger, campaignURL, betURL string) (*Gateway, error) {
	adminTarget, err := url.Parse(campaignURL)
	if err != nil {
		return nil, err
	}
	userTarget, err := url.Parse(betURL)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		log:   log,
		admin: httputil.NewSingleHostReverseProxy(adminTarget),
		user:  httputil.NewSingleHostReverseProxy(userTarget),
	}, nil
}

func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Id", "X-User-Role"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Área administrativa: exige papel super_admin
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(g.requireRole(identity.RoleSuperAdmin))
		r.Handle("/*", http.StripPrefix("/api/admin", g.admin))
	})

	// Área do usuário: qualquer sessão autenticada
	r.Route("/api", func(r chi.Router) {
		r.Use(g.requireRole(identity.RoleUser))
		r.Handle("/*", http.StripPrefix("/api", g.user))
	})

	return r
}

// requireRole resolve a claim de papel para o enum fechado e autoriza por
// switch exaustivo na borda. Claim desconhecida nunca passa.
func (g *Gateway) requireRole(min identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-User-Id") == "" {
				http.Error(w, "unauthenticated", http.StatusUnauthorized)
				return
			}
			role, err := identity.ParseRole(r.Header.Get("X-User-Role"))
			if err != nil {
				g.log.Warn("role claim rejected", zap.Error(err))
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			var allowed bool
			switch min {
			case identity.RoleSuperAdmin:
				allowed = role == identity.RoleSuperAdmin
			case identity.RoleUser:
				allowed = role == identity.RoleUser || role == identity.RoleSuperAdmin
			}
			if !allowed {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
