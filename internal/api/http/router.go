package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"

	"github.com/ekrukov/shortly/internal/database"
	"github.com/ekrukov/shortly/internal/models"
)

// LinkService defines the interface for the core link lifecycle and
// resolution business logic.
type LinkService interface {
	// ShortenURL creates a link for the user, generating an alias when
	// customAlias is empty.
	ShortenURL(ctx context.Context, userID int64, originalURL, customAlias string, expiresAt *time.Time) (*models.Link, error)

	// ResolveAlias translates an alias into a normalized redirect target,
	// recording the visit.
	ResolveAlias(ctx context.Context, alias string) (string, error)

	// ListURLs returns a page of the user's links plus the filtered total.
	ListURLs(ctx context.Context, userID int64, filter database.LinkFilter) ([]*models.Link, int64, error)

	// ModifyURL applies a partial update to a link owned by the user.
	ModifyURL(ctx context.Context, userID int64, alias string, patch database.LinkPatch) (*models.Link, error)

	// DeleteURL removes a link owned by the user.
	DeleteURL(ctx context.Context, userID int64, alias string) error
}

// AuthService defines the interface for registering users and issuing and
// verifying bearer tokens.
type AuthService interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(tokenString string) (int64, error)
}

// requestTimeout bounds every store interaction behind a handler.
const requestTimeout = 15 * time.Second

// getValidate initializes a new validator instance for validating incoming request payloads.
// It customizes tag name extraction from struct fields to match JSON tags.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a new HTTP router with all routes and middleware configured.
func NewRouter(logger *httplog.Logger, authSvc AuthService, linkSvc LinkService) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api", func(r chi.Router) {
		validate := getValidate()

		r.Get("/ping", handlePing)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", handleRegister(authSvc, validate))
			r.Post("/login", handleLogin(authSvc, validate))
		})

		r.Route("/urls", func(r chi.Router) {
			r.Get("/{alias}", handleRedirect(linkSvc))

			r.Group(func(r chi.Router) {
				r.Use(authenticate(authSvc))

				r.Post("/", handleCreateLink(linkSvc, validate))
				r.Get("/", handleListLinks(linkSvc))
				r.Put("/{alias}", handleUpdateLink(linkSvc, validate))
				r.Delete("/{alias}", handleDeleteLink(linkSvc))
			})
		})
	})

	return r
}
