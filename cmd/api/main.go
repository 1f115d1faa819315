package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/globeguide/app"
	"github.com/joefazee/globeguide/app/api"
	"github.com/joefazee/globeguide/app/countries"
	"github.com/joefazee/globeguide/app/database"
	apiDoc "github.com/joefazee/globeguide/app/doc"
	"github.com/joefazee/globeguide/app/profile"
	"github.com/joefazee/globeguide/app/user"
	_ "github.com/joefazee/globeguide/docs"
	"github.com/joefazee/globeguide/internal/cache"
	"github.com/joefazee/globeguide/internal/deps"
	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/internal/router"
	"github.com/joefazee/globeguide/internal/sanitizer"
	"github.com/joefazee/globeguide/internal/security"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title GlobeGuide API
// @version 1.0
// @description Country data proxy, accounts and profile documents for the GlobeGuide client.

// @contact.name API Support Team

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	log := logger.NewZeroLogger(os.Stdout, logger.LevelInfo, logger.Fields{"service": "globeguide-api"})

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal(err, map[string]interface{}{"op": "load_config"})
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Error(err, map[string]interface{}{"op": "parse_log_level"})
	}
	log.SetLevel(level)

	if err := run(cfg, log); err != nil {
		log.Fatal(err, nil)
	}
}

func run(cfg *app.Config, log logger.Logger) error {
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(cfg.DB.MigrationsPath, cfg.DB.URL()); err != nil {
			return err
		}
		log.Info("migrations applied", map[string]interface{}{"path": cfg.DB.MigrationsPath})
	}

	db, err := database.New(&cfg.DB)
	if err != nil {
		return err
	}

	sharedCache, err := cache.New[[]byte](cfg.CacheOptions())
	if err != nil {
		return err
	}
	defer sharedCache.Close()

	tokenMaker, err := security.NewPasetoMaker(cfg.User.SymmetricKey)
	if err != nil {
		return err
	}

	container := deps.NewContainer(db, tokenMaker, sanitizer.NewHTMLStripper(), log, sharedCache)
	countries.InitRepositories(container, &cfg.Countries)
	user.InitRepositories(container, &cfg.User)
	profile.InitRepositories(container)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newEngine(cfg, container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting GlobeGuide API server", map[string]interface{}{
			"addr": srv.Addr, "env": cfg.Env, "cache": cfg.CacheBackend, "version": version,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newEngine(cfg *app.Config, container *deps.Container) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(container.Logger), api.CorsMiddleware())

	mounter := router.NewMounter(container)

	public := mounter.Public(r)
	public.RouterGroup().GET("/healthz", api.HealthCheck(cfg.Env, version))
	public.Mount(countries.MountPublic).
		Mount(user.MountPublic)

	mounter.Authenticated(r, user.Middleware(container)).
		Mount(user.MountAuthenticated).
		Mount(profile.MountAuthenticated)

	apiDoc.Init(r, cfg.Env, cfg.PublicURL)
	return r
}
