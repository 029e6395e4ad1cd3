package services

import (
	"errors"

	"festmatch_backend/internal/auth"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SignupRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Phone        string `json:"phone" validate:"omitempty,e164"`
	Role         string `json:"role" validate:"required,is-signup-role"`
	ReferralCode string `json:"referral_code" validate:"omitempty,len=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService interface {
	Signup(db *gorm.DB, req *SignupRequest) (*AuthResponse, error)
	Login(db *gorm.DB, req *LoginRequest) (*AuthResponse, error)
	GetProfile(db *gorm.DB, userID string) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Signup registers a user, host or referrer account. Referrers get a
// shareable code on creation; anyone signing up with someone's code is
// attributed to that referrer. Admin accounts are seeded, never signed up.
func (s *authService) Signup(db *gorm.DB, req *SignupRequest) (*AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.NewConflictError("auth", "An account with this email already exists")
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         models.UserRole(req.Role),
		Status:       models.UserStatusActive,
	}

	if user.Role == models.UserRoleReferrer {
		user.ReferralCode = generateShortCode()
	}

	if req.ReferralCode != "" {
		referrer, err := s.userRepo.FindByReferralCode(db, req.ReferralCode)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.NewBadRequestError("Unknown referral code")
			}
			return nil, apperrors.InternalError(err)
		}
		user.ReferredBy = &referrer.ID
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.NewConflictError("auth", "An account with this email already exists")
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(db *gorm.DB, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.NewForbiddenError("Account is deactivated")
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) GetProfile(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("auth", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}
