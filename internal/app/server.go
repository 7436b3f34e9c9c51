// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/admin"
	"github.com/mhmasum1/digital-life-lessons-server/internal/comment"
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/contact"
	"github.com/mhmasum1/digital-life-lessons-server/internal/favorite"
	"github.com/mhmasum1/digital-life-lessons-server/internal/identity"
	"github.com/mhmasum1/digital-life-lessons-server/internal/jobs"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/middleware"
	"github.com/mhmasum1/digital-life-lessons-server/internal/payment"
	"github.com/mhmasum1/digital-life-lessons-server/internal/report"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups every route module mounted by the server.
type Handlers struct {
	Identity *identity.Handler
	User     *user.Handler
	Lesson   *lesson.Handler
	Comment  *comment.Handler
	Favorite *favorite.Handler
	Report   *report.Handler
	Contact  *contact.Handler
	Payment  *payment.Handler
	Admin    *admin.Handler
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	maintenanceJob *jobs.MaintenanceJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	handlers Handlers,
	verifier identity.Verifier,
	roles middleware.RoleLookup,
	maintenanceJob *jobs.MaintenanceJob,
) *Server {
	gin.SetMode(cfg.GinMode)
	router := NewRouter(cfg, logger, handlers,
		middleware.Authenticate(verifier, logger.Named("AuthMiddleware")),
		middleware.RequireRole(roles, logger.Named("RoleMiddleware"), common.RoleAdmin),
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:     httpServer,
		router:         router,
		cfg:            cfg,
		logger:         logger,
		maintenanceJob: maintenanceJob,
	}
}

// NewRouter builds the gin engine with global middleware and every route module.
func NewRouter(cfg *config.Config, logger *zap.Logger, h Handlers, authMW, adminMW gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.ZapLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Digital Life Lessons server is running")
	})

	h.Identity.RegisterRoutes(router)
	h.User.RegisterRoutes(router, authMW, adminMW)
	h.Lesson.RegisterRoutes(router, authMW, adminMW)
	h.Comment.RegisterRoutes(router, authMW)
	h.Favorite.RegisterRoutes(router, authMW)
	h.Report.RegisterRoutes(router, authMW, adminMW)
	h.Contact.RegisterRoutes(router, authMW, adminMW)
	h.Payment.RegisterRoutes(router)
	h.Admin.RegisterRoutes(router, authMW, adminMW)

	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.MethodNotAllowed())
	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	if site := strings.TrimSpace(cfg.SiteDomain); site != "" && !contains(origins, site) {
		origins = append(origins, site)
	}

	c := cors.DefaultConfig()
	c.AllowOrigins = origins
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	c.AllowCredentials = true
	c.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	return c
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	if s.maintenanceJob != nil {
		if err := s.maintenanceJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start maintenance job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.maintenanceJob != nil {
		s.maintenanceJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
