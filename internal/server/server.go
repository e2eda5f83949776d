package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"parishtasks/internal/config"
	"parishtasks/internal/dateutil"
	"parishtasks/internal/handler"
	"parishtasks/internal/memstore"
	"parishtasks/internal/middleware"
	"parishtasks/internal/migrations"
	"parishtasks/internal/model"
	"parishtasks/internal/repository"
	"parishtasks/internal/scheduler"
	"parishtasks/internal/seeder"
	"parishtasks/internal/service"
	"parishtasks/internal/templates"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Engine    *gin.Engine
	DB        *gorm.DB
	Config    *config.Config
	Service   *service.TaskService
	Scheduler *scheduler.Scheduler
	logger    *slog.Logger
}

func Init(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	loc, err := location(cfg.Server.Timezone)
	if err != nil {
		return nil, err
	}

	store, db, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	svc := service.NewTaskService(store, dateutil.ZonedClock{Loc: loc}, Features(cfg.Features), logger)

	ctx := context.Background()
	if cfg.Features.InstallTemplates {
		if err := installTemplates(ctx, store, cfg.Features.TemplateCatalog, logger); err != nil {
			return nil, err
		}
	}
	if cfg.Features.SeedOnStart {
		res, err := svc.SeedTemplates(ctx, nil)
		if err != nil {
			logger.Warn("initial seeding failed", "error", err)
		} else {
			logger.Info("initial seeding done", "created", res.Created, "skipped", res.Skipped, "removed", res.Removed)
		}
	}

	s := &Server{
		Engine:  NewRouter(svc, cfg.Server.JWTSecret),
		DB:      db,
		Config:  cfg,
		Service: svc,
		logger:  logger,
	}
	if cfg.Server.CronSpec != "" {
		s.Scheduler, err = scheduler.New(cfg.Server.CronSpec, svc, loc, logger)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func location(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

func openStore(cfg *config.Config, logger *slog.Logger) (service.Store, *gorm.DB, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), nil, nil
	}

	url := cfg.Database.URL()
	if cfg.Database.AutoMigrate {
		if err := migrations.Up(url, logger); err != nil {
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	level := gormlogger.Warn
	if cfg.Server.LogLevel == "debug" {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("connected to database", "host", cfg.Database.Host, "name", cfg.Database.Name)
	return repository.NewStore(db), db, nil
}

func installTemplates(ctx context.Context, store templates.Store, path string, logger *slog.Logger) error {
	var (
		catalog []model.RecurringTaskTemplate
		err     error
	)
	if path != "" {
		catalog, err = templates.Load(path)
	} else {
		catalog, err = templates.Default()
	}
	if err != nil {
		return fmt.Errorf("load template catalog: %w", err)
	}

	added, err := templates.Install(ctx, store, catalog)
	if err != nil {
		return fmt.Errorf("install templates: %w", err)
	}
	logger.Info("templates installed", "added", added, "catalog", len(catalog))
	return nil
}

// Features resolves the configured feature flags into engine settings.
// Unknown origin names are skipped.
func Features(f config.FeaturesConfig) service.Features {
	origins := make([]model.OriginType, 0, len(f.Origins))
	for _, name := range f.Origins {
		if t, ok := model.ParseOriginType(name); ok {
			origins = append(origins, t)
		}
	}
	return service.Features{
		Seeding: seeder.Settings{
			Origins:           origins,
			SundayHorizonDays: f.SundayHorizonDays,
			ComputeSundays:    f.ComputeSundays,
			VestryMonthsAhead: f.VestryMonthsAhead,
			TicketSLADays:     f.TicketSLADays,
			TicketDefaultStep: f.TicketDefaultStep,
			LegacyCleanup:     f.LegacyCleanup,
		},
		ArchiveOnRead:   f.ArchiveOnRead,
		CollapseSundays: f.CollapseSundays,
	}
}

// NewRouter mounts the HTTP API. Reads are public; writes require a bearer
// token when jwtSecret is set.
func NewRouter(svc handler.TaskService, jwtSecret string) *gin.Engine {
	r := gin.Default()

	taskHandler := handler.NewTaskHandler(svc)
	originHandler := handler.NewOriginHandler(svc)
	templateHandler := handler.NewTemplateHandler(svc)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	r.GET("/tasks", taskHandler.List)
	r.GET("/tasks/rollup", taskHandler.Rollup)
	r.GET("/task-origins", originHandler.List)
	r.GET("/task-templates", templateHandler.List)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.OptionalJWTAuth(jwtSecret))
	{
		authorized.POST("/tasks", taskHandler.Create)
		authorized.PATCH("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/seed", taskHandler.Seed)

		authorized.POST("/task-origins/assign", originHandler.Assign)
		authorized.DELETE("/task-origins", originHandler.Delete)

		authorized.POST("/task-templates", templateHandler.Save)
	}
	return r
}

// Run serves until SIGINT or SIGTERM, then drains requests and stops the
// scheduler.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: s.Engine,
	}

	if s.Scheduler != nil {
		s.Scheduler.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server running", "port", s.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if s.Scheduler != nil {
		s.Scheduler.Stop(ctx)
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	s.logger.Info("server exited properly")
	return nil
}
