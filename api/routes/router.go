package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/equilog/equilog-backend/api/controllers"
	"github.com/equilog/equilog-backend/api/middleware"
	"github.com/equilog/equilog-backend/internal/auth"
	"github.com/equilog/equilog-backend/internal/calendar"
	"github.com/equilog/equilog-backend/internal/comments"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/internal/invites"
	"github.com/equilog/equilog-backend/internal/joinrequests"
	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/internal/password"
	"github.com/equilog/equilog-backend/internal/posts"
	"github.com/equilog/equilog-backend/internal/stables"
	"github.com/equilog/equilog-backend/internal/users"
	"github.com/equilog/equilog-backend/pkg/auth/session"
	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/equilog/equilog-backend/pkg/logger"
)

// RedisStore is the slice of the Redis client the HTTP layer needs.
type RedisStore interface {
	middleware.IdempotencyStore
	middleware.RateLimiterStore
}

// Deps carries everything the router wires into handlers. Blob, Redis and
// Metrics are optional.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Health   map[string]controllers.Pinger
	Sessions session.AccessSessionChecker
	Redis    RedisStore
	Metrics  http.Handler
	Blob     controllers.BlobURLs

	Auth         auth.Service
	Users        users.Service
	Stables      stables.Service
	Horses       horses.Service
	Memberships  memberships.Service
	Posts        posts.Service
	Comments     comments.Service
	Calendar     calendar.Service
	Invites      invites.Service
	JoinRequests joinrequests.Service
	Passwords    password.Service
	Compositions controllers.Compositions
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	var limiter middleware.RateLimiterStore
	var idempotency middleware.IdempotencyStore
	if d.Redis != nil {
		limiter, idempotency = d.Redis, d.Redis
	}
	loginPolicy, registerPolicy, resetPolicy := middleware.AuthPolicies(cfg.AuthRateLimit)
	createOnce := middleware.Idempotent(idempotency, middleware.IdempotencyCreationTTL, logg)
	emailOnce := middleware.Idempotent(idempotency, middleware.IdempotencyEmailTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.Health, logg))
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		// Public surface.
		r.Group(func(r chi.Router) {
			r.With(middleware.RateLimit(registerPolicy, limiter, logg)).Post("/auth/register", controllers.AuthRegister(d.Auth, logg))
			r.With(middleware.RateLimit(loginPolicy, limiter, logg)).Post("/auth/login", controllers.AuthLogin(d.Auth, logg))
			r.Post("/auth/refresh", controllers.AuthRefresh(d.Auth, logg))
			r.With(middleware.RateLimit(resetPolicy, limiter, logg), emailOnce).Post("/password-reset-requests", controllers.PasswordResetEmail(d.Compositions, logg))
			r.Post("/password-resets", controllers.PasswordReset(d.Passwords, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

			r.Post("/auth/logout", controllers.AuthLogout(d.Auth, logg))
			r.Delete("/password-reset-requests/{requestId}", controllers.PasswordResetRequestDelete(d.Passwords, logg))

			r.Route("/blob-storage", func(r chi.Router) {
				r.Get("/upload-uri", controllers.BlobUploadURL(d.Blob, logg))
				r.Get("/read-uri", controllers.BlobReadURL(d.Blob, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UserList(d.Users, logg))
				r.Get("/me", controllers.UserMe(d.Users, logg))
				r.Put("/password", controllers.PasswordChange(d.Passwords, logg))
				r.Route("/{userId}", func(r chi.Router) {
					r.Get("/", controllers.UserGet(d.Users, logg))
					r.Put("/", controllers.UserUpdate(d.Users, logg))
					r.Delete("/", controllers.UserDelete(d.Users, logg))
					r.Delete("/compositions", controllers.UserDeleteComposition(d.Compositions, logg))
					r.Post("/ownership-transfers", controllers.UserTransferOwnership(d.Compositions, logg))
					r.Put("/profile-picture", controllers.UserSetProfilePicture(d.Compositions, logg))
					r.Get("/stables", controllers.UserStables(d.Memberships, logg))
					r.Get("/join-requests", controllers.UserJoinRequests(d.JoinRequests, logg))
					r.Get("/stables/{stableId}/profile", controllers.UserProfile(d.Users, logg))
					r.Delete("/stables/{stableId}", controllers.UserLeaveStableComposition(d.Compositions, logg))
				})
			})

			r.Route("/stables", func(r chi.Router) {
				r.Get("/", controllers.StableSearch(d.Stables, logg))
				r.With(createOnce).Post("/", controllers.StableCreateComposition(d.Compositions, logg))
				r.Get("/locations", controllers.StableLocation(d.Stables, logg))
				r.Route("/{stableId}", func(r chi.Router) {
					r.Get("/", controllers.StableGet(d.Stables, logg))
					r.Put("/", controllers.StableUpdate(d.Stables, logg))
					r.Delete("/", controllers.StableDelete(d.Stables, logg))
					r.Get("/users", controllers.StableUsers(d.Memberships, logg))
					r.Get("/horses", controllers.StableHorses(d.Horses, logg))
					r.Get("/posts", controllers.StablePosts(d.Posts, logg))
					r.Get("/calendar-events", controllers.StableCalendarEvents(d.Calendar, logg))
					r.Get("/invites", controllers.StableInvites(d.Invites, logg))
					r.Get("/join-requests", controllers.StableJoinRequests(d.JoinRequests, logg))
				})
			})

			r.Route("/horses", func(r chi.Router) {
				r.Get("/", controllers.HorseList(d.Horses, logg))
				r.Post("/", controllers.HorseCreate(d.Horses, logg))
				r.With(createOnce).Post("/compositions", controllers.HorseCreateComposition(d.Compositions, logg))
				r.Get("/{horseId}", controllers.HorseGet(d.Horses, logg))
				r.Get("/{horseId}/profile", controllers.HorseProfile(d.Horses, logg))
				r.Put("/{horseId}", controllers.HorseUpdate(d.Horses, logg))
				r.Delete("/{horseId}", controllers.HorseDelete(d.Horses, logg))
			})
			r.Delete("/stable-horses/{stableHorseId}", controllers.StableHorseRemove(d.Horses, logg))

			r.Route("/user-stables/{userStableId}", func(r chi.Router) {
				r.Put("/role", controllers.UserStableUpdateRole(d.Memberships, logg))
				r.Delete("/", controllers.UserStableRemove(d.Memberships, logg))
			})

			r.Route("/stable-posts", func(r chi.Router) {
				r.With(createOnce).Post("/", controllers.StablePostCreate(d.Posts, logg))
				r.Route("/{stablePostId}", func(r chi.Router) {
					r.Get("/", controllers.StablePostGet(d.Posts, logg))
					r.Put("/", controllers.StablePostUpdate(d.Posts, logg))
					r.Patch("/pinned", controllers.StablePostTogglePinned(d.Posts, logg))
					r.Delete("/", controllers.StablePostDelete(d.Posts, logg))
					r.Get("/comments", controllers.StablePostComments(d.Comments, logg))
				})
			})

			r.With(createOnce).Post("/comments/compositions", controllers.CommentCreateComposition(d.Compositions, logg))
			r.Delete("/comments/{commentId}", controllers.CommentDelete(d.Comments, logg))

			r.Route("/calendar-events", func(r chi.Router) {
				r.Get("/", controllers.CalendarEventList(d.Calendar, logg))
				r.With(createOnce).Post("/", controllers.CalendarEventCreate(d.Calendar, logg))
				r.Get("/{calendarEventId}", controllers.CalendarEventGet(d.Calendar, logg))
				r.Put("/{calendarEventId}", controllers.CalendarEventUpdate(d.Calendar, logg))
				r.Delete("/{calendarEventId}", controllers.CalendarEventDelete(d.Calendar, logg))
			})

			r.Route("/stable-invites", func(r chi.Router) {
				r.Post("/", controllers.StableInviteCreate(d.Invites, logg))
				r.Post("/accept", controllers.StableInviteAccept(d.Invites, logg))
				r.Post("/refuse", controllers.StableInviteRefuse(d.Invites, logg))
			})

			r.Route("/stable-join-requests", func(r chi.Router) {
				r.Post("/", controllers.StableJoinRequestCreate(d.JoinRequests, logg))
				r.Post("/accept", controllers.StableJoinRequestAccept(d.JoinRequests, logg))
				r.Post("/refuse", controllers.StableJoinRequestRefuse(d.JoinRequests, logg))
			})
		})
	})

	return r
}
