package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/apperr"
	"github.com/tokutei/learning-api/models"
	"github.com/tokutei/learning-api/repository"
	"github.com/tokutei/learning-api/service"
)

const currentUserKey = "current_user"

// Authenticator extracts the Bearer token, verifies it and loads the
// caller's profile into the request context.
type Authenticator struct {
	verifier service.TokenVerifier
	profiles repository.ProfileRepository
}

func NewAuthenticator(verifier service.TokenVerifier, profiles repository.ProfileRepository) *Authenticator {
	return &Authenticator{verifier: verifier, profiles: profiles}
}

func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, apperr.Authentication("missing Authorization header"))
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortWithError(c, apperr.Authentication("malformed Authorization header"))
			return
		}

		userID, err := a.verifier.Verify(token)
		if err != nil {
			abortWithError(c, apperr.Authentication("invalid token"))
			return
		}

		profile, err := a.profiles.GetByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWithError(c, apperr.Authentication("unknown user"))
				return
			}
			abortWithError(c, apperr.Upstream("failed to load user profile", err))
			return
		}

		c.Set(currentUserKey, profile)
		c.Next()
	}
}

// CurrentUser returns the authenticated profile set by RequireAuth.
func CurrentUser(c *gin.Context) *models.Profile {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*models.Profile)
	return profile
}

// RequireTeacher gates write endpoints to the teacher role.
func RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleTeacher {
			abortWithError(c, apperr.Authorization("teacher role required"))
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
	c.Abort()
}
