package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/globeguide/internal/deps"
)

const (
	RepoKey    = "profile_repository"
	ServiceKey = "profile_service"
)

// MountAuthenticated mounts the profile routes; the group must already
// require a signed-in user.
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := NewHandler(container.GetService(ServiceKey).(Service), container.Sanitizer)

	profiles := r.Group("/profiles")
	profiles.GET("/:id", handler.GetProfile)
	profiles.PATCH("/:id", handler.UpdateProfile)
}

func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)
	container.RegisterService(ServiceKey, NewService(repo))
}
