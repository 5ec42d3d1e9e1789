package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/access"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/config"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

// Components are the collaborators the endpoints are built from.
type Components struct {
	Config      *config.RBACConfig
	Logger      *logrus.Logger
	Services    *rbac.Services
	Gate        *access.Gate
	Auth        *authn.Authenticator
	Tokens      *authn.Tokens
	Metrics     *metrics.Metrics
	HealthStore store.HealthStore
}

type Server struct {
	Components
	Router        *mux.Router
	JWTMiddleware *middleware.JWTAuthenticator
	srv           *http.Server
}

func NewServer(c Components, host string, port string) *Server {
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.Config == nil {
		c.Config = config.Get()
	}

	router := mux.NewRouter().UseEncodedPath()
	if c.Metrics != nil {
		router.Use(c.Metrics.Middleware)
	}

	var handler http.Handler = router
	if len(c.Config.CORSAllowedOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(c.Config.CORSAllowedOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)(handler)
	}
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(c.Logger))(handler)
	handler = handlers.LoggingHandler(os.Stdout, handler)

	srv := &http.Server{
		Handler: handler,
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	s := &Server{
		Components: c,
		Router:     router,
		srv:        srv,
	}
	if c.Tokens != nil && c.Services != nil {
		s.JWTMiddleware = middleware.NewJWTAuthenticator(c.Tokens, c.Services.Users, c.Logger)
	}
	return s
}

// Handler returns the fully wrapped handler, as served by Start.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start listens until Shutdown is called. It returns http.ErrServerClosed
// after a graceful shutdown.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
