package routes

import (
	"net/http"

	"github.com/Ruben10-R/pro-league/handlers"
	"github.com/Ruben10-R/pro-league/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Profile     *handlers.ProfileHandler
	Tournament  *handlers.TournamentHandler
	Team        *handlers.TeamHandler
	Participant *handlers.ParticipantHandler
	Match       *handlers.MatchHandler
	WebSocket   *handlers.WebSocketHandler
}

// SetupRoutes mounts the whole API surface onto router.
func SetupRoutes(router *chi.Mux, h Handlers, auth *middleware.Authenticator, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/", h.Profile.Get)
			r.Put("/", h.Profile.Update)
			r.Put("/password", h.Profile.ChangePassword)
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.List)
			r.Get("/{tournamentID}", h.Tournament.GetByID)
			r.Get("/{tournamentID}/participants", h.Participant.ListByTournament)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/", h.Tournament.Create)
				r.Put("/{tournamentID}", h.Tournament.Update)
				r.Delete("/{tournamentID}", h.Tournament.Delete)
				r.Post("/{tournamentID}/participants", h.Participant.Register)
			})
		})

		r.Route("/participants", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Put("/{participantID}", h.Participant.Update)
			r.Delete("/{participantID}", h.Participant.Withdraw)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Team.List)
			r.Get("/{teamID}", h.Team.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/", h.Team.Create)
				r.Put("/{teamID}", h.Team.Update)
				r.Delete("/{teamID}", h.Team.Delete)
				r.Post("/{teamID}/members", h.Team.AddMember)
				r.Delete("/{teamID}/members/{userID}", h.Team.RemoveMember)
				r.Post("/{teamID}/logo", h.Team.UploadLogo)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Match.List)
			r.Get("/{matchID}", h.Match.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/", h.Match.Create)
				r.Put("/{matchID}", h.Match.Update)
				r.Delete("/{matchID}", h.Match.Delete)
			})
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)
}
