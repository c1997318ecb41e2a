package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/loginus-id/api/internal/application/account"
	"github.com/loginus-id/api/internal/application/authflow"
	"github.com/loginus-id/api/internal/application/verification"
	"github.com/loginus-id/api/internal/application/webauthn"
	"github.com/loginus-id/api/internal/config"
	"github.com/loginus-id/api/internal/domain"
	jwtinfra "github.com/loginus-id/api/internal/infrastructure/jwt"
	"github.com/loginus-id/api/internal/infrastructure/sessionstore"
	"github.com/loginus-id/api/internal/infrastructure/smtp"
	"github.com/loginus-id/api/internal/infrastructure/sns"
	"github.com/loginus-id/api/internal/transport/http/handler"
	appmiddleware "github.com/loginus-id/api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router. Mailer,
// SMSSender, Archive and JWTProvider may be nil; the wiring degrades
// gracefully (log-only delivery, no snapshots, opaque tokens, open admin).
type Deps struct {
	SessionStore sessionstore.Store
	Accounts     account.Service
	FlowStore    *authflow.FileStore
	Archive      authflow.Archiver
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
	Bypass       verification.BypassPolicy
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var adminMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		auth := appmiddleware.Auth(deps.JWTProvider)
		role := appmiddleware.RequireRole(domain.RoleAdmin)
		adminMw = func(next http.Handler) http.Handler { return auth(role(next)) }
	} else {
		// Without signing keys the admin surface stays open; tokens are
		// opaque mocks and carry nothing to authenticate.
		adminMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to the code-sending endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	var tokens verification.TokenIssuer
	if deps.JWTProvider != nil {
		tokens = jwtinfra.NewIssuer(deps.JWTProvider)
	} else {
		tokens = verification.NewOpaqueIssuer(nil)
	}

	verifySvc := verification.NewService(verification.ServiceDeps{
		Store:          deps.SessionStore,
		Accounts:       deps.Accounts,
		Tokens:         tokens,
		Bypass:         deps.Bypass,
		SMSSender:      deps.SMSSender,
		Mailer:         deps.Mailer,
		CodeTTL:        cfg.CodeTTL,
		ResendCooldown: cfg.ResendCooldown,
	})
	flowSvc := authflow.NewService(deps.FlowStore, deps.Archive, nil)
	webauthnSvc := webauthn.NewService(nil)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(verifySvc, deps.Accounts)
	flowH := handler.NewAuthFlowHandler(flowSvc)
	webauthnH := handler.NewWebAuthnHandler(webauthnSvc)

	// ── Public routes ────────────────────────────────────────────────────────
	r.Get("/health-check/ping", healthH.Ping)

	r.With(sensitiveRL.Limit).Post("/auth/send-code", authH.SendCode)
	r.With(sensitiveRL.Limit).Post("/auth/check-and-send-code", authH.CheckAndSendCode)
	r.Post("/auth/verify-code", authH.VerifyCode)
	r.Post("/auth/check", authH.Check)
	r.Post("/auth/webauthn/challenge", webauthnH.Begin)
	r.Post("/auth/webauthn/verify", webauthnH.Finish)
	r.Get("/auth/flow", flowH.GetPublic)

	// ── Admin routes ─────────────────────────────────────────────────────────
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminMw)

		r.Get("/auth-flow", flowH.AdminGet)
		r.Put("/auth-flow", flowH.AdminUpdate)
		r.Post("/auth-flow/test", flowH.AdminTest)
	})

	return r
}
