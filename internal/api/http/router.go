package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/skillassist/internal/auth"
	"github.com/mind-engage/skillassist/internal/catalog"
	"github.com/mind-engage/skillassist/internal/results"
)

// Deps are the services the router serves. All fields are required except
// Checks.
type Deps struct {
	Students    StudentStore
	Tokens      *auth.TokenService
	Bank        QuestionLister
	Scorer      Scorer
	Results     results.Store
	Recommender Recommender
	Catalog     *catalog.Catalog
	Docs        *catalog.Docs
	Chat        Responder
	Checks      []ReadyCheck

	CORSOrigins    []string
	RequestTimeout time.Duration // default 30s
	Logger         *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	requireAuth := auth.Middleware(d.Tokens, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(log), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", HealthzHandler)
	r.Get("/readyz", ReadyzHandler(d.Checks))

	r.Route("/api", func(api chi.Router) {
		api.Group(func(g chi.Router) {
			g.Use(middleware.Timeout(timeout))

			g.Get("/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"message": "Student Skill Assistant API"})
			})
			g.Post("/auth/register", RegisterHandler(d.Students))
			g.Post("/auth/login", LoginHandler(d.Students, d.Tokens))
			g.Get("/courses", CoursesHandler(d.Catalog))

			g.Group(func(pr chi.Router) {
				pr.Use(requireAuth)

				pr.Get("/auth/me", MeHandler(d.Students))
				pr.Post("/auth/password", ChangePasswordHandler(d.Students))

				pr.Get("/tests/levels", LevelsHandler(d.Results))
				pr.Get("/tests/{track}", ListQuestionsHandler(d.Bank))
				pr.Post("/tests/{track}", SubmitHandler(d.Scorer, d.Results))
				pr.Get("/tests/{track}/history", HistoryHandler(d.Results))

				pr.Get("/recommendations", RecommendationsHandler(d.Recommender))
				pr.Get("/docs", DocsHandler(d.Docs))
				pr.Post("/chat", ChatHandler(d.Chat))
			})
		})

		// Long-lived; must stay outside the request timeout.
		api.With(requireAuth).Get("/chat/ws", ChatSocketHandler(d.Chat, d.CORSOrigins))
	})
	return r
}
