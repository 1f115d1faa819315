package user

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/globeguide/internal/deps"
)

const (
	RepoKey        = "user_repository"
	ServiceKey     = "user_service"
	AuthServiceKey = "auth_service"

	revokedNamespace = "revoked"
)

// MountPublic mounts public user routes (registration, login)
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	userGroup := r.Group("/users")
	userGroup.POST("/register", handler.Register)
	userGroup.POST("/login", handler.Login)
}

// MountAuthenticated mounts routes that need a signed-in user
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	userGroup := r.Group("/users")
	userGroup.POST("/logout", handler.Logout)
	userGroup.GET("/me", handler.Me)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container, cfg *Config) {
	userRepo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, userRepo)

	authService := NewAuthService(container.NamespacedCache(revokedNamespace))
	container.RegisterService(AuthServiceKey, authService)

	userService := NewService(userRepo, container.TokenMaker, authService, cfg.AccessTokenTTL)
	container.RegisterService(ServiceKey, userService)
}

// Middleware returns the bearer-token guard for authenticated routes.
func Middleware(container *deps.Container) gin.HandlerFunc {
	authService := container.GetService(AuthServiceKey).(AuthService)
	return AuthMiddleware(container.TokenMaker, authService)
}

func createHandler(container *deps.Container) *Handler {
	userService := container.GetService(ServiceKey).(Service)
	return NewHandler(userService, container.Sanitizer, container.Logger)
}
