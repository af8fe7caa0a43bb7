package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mituwo-320/asket-entry/docs"
	"github.com/mituwo-320/asket-entry/handlers"
	"github.com/mituwo-320/asket-entry/middleware"
	"github.com/mituwo-320/asket-entry/services"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Entry      *handlers.EntryHandler
	Schedule   *handlers.ScheduleHandler
	Event      *handlers.EventHandler
	Admin      *handlers.AdminHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
}

func SetupRoutes(r chi.Router, opts Options, h Handlers) {
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health.Healthz)

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(docs.SwaggerJSON)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// websocket живёт вне таймаута запросов
	r.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	r.Route("/api", func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
		}

		// Публичные маршруты: заявки команд и просмотр расписания
		r.Post("/entries", h.Entry.CreateEntry)
		r.Get("/entries/{entryID}", h.Entry.GetEntry)
		r.Put("/entries/{entryID}", h.Entry.UpdateEntry)
		r.Get("/tournaments", h.Tournament.ListOpen)
		r.Get("/tournaments/{tournamentID}", h.Tournament.GetTournament)
		r.Get("/tournaments/{tournamentID}/matches", h.Schedule.ListMatches)
		r.Get("/tournaments/{tournamentID}/events", h.Event.ListEvents)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(opts.JWTSecret))
				r.Use(middleware.Authorize(services.AdminRole))

				r.Get("/tournaments", h.Tournament.ListTournaments)
				r.Post("/tournaments", h.Tournament.CreateTournament)

				r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
					r.Put("/", h.Tournament.UpdateTournament)
					r.Patch("/fees", h.Tournament.UpdateFees)
					r.Get("/entries", h.Entry.ListTournamentEntries)
					r.Get("/overview", h.Admin.Overview)
					r.Get("/lottery", h.Admin.Lottery)
					r.Post("/schedule/generate", h.Schedule.Generate)
					r.Post("/schedule/allocate", h.Schedule.Allocate)
					r.Post("/groups/auto", h.Admin.AutoAssignGroups)
				})

				r.Post("/groups", h.Admin.SaveGroups)
				r.Patch("/matches/{matchID}", h.Schedule.UpdateMatch)
				r.Post("/events", h.Event.SaveEvents)
				r.Delete("/events/{eventID}", h.Event.DeleteEvent)
				r.Patch("/entries/{entryID}/payment", h.Entry.SetPayment)
				r.Patch("/entries/{entryID}/preliminary-number", h.Entry.SetPreliminaryNumber)
			})
		})
	})
}
