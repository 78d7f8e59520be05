package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lexprocure/api/internal/api/handlers"
	"github.com/lexprocure/api/internal/api/middleware"
	"github.com/lexprocure/api/internal/audit"
	"github.com/lexprocure/api/internal/auth"
	"github.com/lexprocure/api/internal/cache"
	"github.com/lexprocure/api/internal/comment"
	"github.com/lexprocure/api/internal/config"
	"github.com/lexprocure/api/internal/organisation"
	"github.com/lexprocure/api/internal/proposal"
	"github.com/lexprocure/api/internal/queue"
	"github.com/lexprocure/api/internal/rfp"
	"github.com/lexprocure/api/internal/store/postgres"
	"github.com/lexprocure/api/internal/token"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	codec *token.Codec
	guard *auth.Guard
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	codec := token.NewCodec(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	stores := postgres.New(db)
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		codec: codec,
		guard: auth.NewGuard(codec, stores.Users),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	stores := postgres.New(rt.db)
	verifier := auth.NewBcryptVerifier(rt.cfg.Auth.BcryptCost)
	queueClient := queue.NewClient(rt.cfg.Redis)

	auditSvc := audit.NewService(stores.Audits, queueClient)
	authSvc := auth.NewService(stores.Users, stores.Organisations, rt.codec, verifier)
	rfpSvc := rfp.NewService(stores.Rfps, auditSvc)
	proposalSvc := proposal.NewService(stores.Proposals, auditSvc)
	orgSvc := organisation.NewService(stores.Organisations, cache.NewCache(rt.redis),
		verifier, rt.cfg.Auth.DefaultMemberPassword)
	commentSvc := comment.NewService(stores.Comments)

	authH := handlers.NewAuthHandler(authSvc)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Post("/refresh-token", authH.Refresh)
		r.With(rt.guard.Authenticate).Get("/logout", authH.Logout)
	})

	// Everything below requires a valid access token
	r.Group(func(r chi.Router) {
		r.Use(rt.guard.Authenticate)

		rfpH := handlers.NewRfpHandler(rfpSvc)
		r.Route("/rfps", func(r chi.Router) {
			r.Get("/", rfpH.List)
			r.Post("/", rfpH.Create)
			r.Get("/{id}", rfpH.Get)
			r.Put("/{id}", rfpH.Update)
			r.Delete("/{id}", rfpH.Delete)
		})

		proposalH := handlers.NewProposalHandler(proposalSvc)
		r.Route("/proposals", func(r chi.Router) {
			r.Post("/", proposalH.Create)
			r.Get("/rfp/{rfpID}", proposalH.ListByRfp)
			r.Get("/{id}", proposalH.Get)
			r.Patch("/{id}", proposalH.Update)
			r.Delete("/{id}", proposalH.Delete)
			r.Post("/{id}/accept", proposalH.Accept)
		})

		orgH := handlers.NewOrganisationHandler(orgSvc)
		r.Route("/organisations", func(r chi.Router) {
			r.Get("/{id}", orgH.Get)
			r.Get("/{id}/users", orgH.ListUsers)
			r.With(rt.guard.RequireAdmin).Post("/{id}/members", orgH.AddMember)
		})

		commentH := handlers.NewCommentHandler(commentSvc)
		r.Route("/comments", func(r chi.Router) {
			r.Post("/", commentH.Create)
			r.Get("/{entityID}", commentH.ListByEntity)
			r.Delete("/{id}", commentH.Delete)
		})

		auditH := handlers.NewAuditHandler(auditSvc)
		r.Get("/audit-logs", auditH.List)
	})

	return r
}
