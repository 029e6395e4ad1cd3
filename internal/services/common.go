package services

import (
	"strings"

	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// requireAdmin re-fetches the caller's role from storage. The session role
// claim is never trusted for privileged operations.
func requireAdmin(db *gorm.DB, userRepo repositories.UserRepository, userID string) error {
	user, err := userRepo.FindByID(db, userID)
	if err != nil {
		return apperrors.NewUnauthorizedError("Unknown user")
	}
	if user.Role != models.UserRoleAdmin {
		return apperrors.NewForbiddenError("Admin access required")
	}
	return nil
}

func generateShortCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
