package services

import (
	"errors"
	"time"

	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"omitempty,max=5000"`
	Venue       string    `json:"venue" validate:"required,min=3,max=200"`
	City        string    `json:"city" validate:"required,min=2,max=100"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	TicketPrice float64   `json:"ticket_price" validate:"required,gt=0"`
	Capacity    int       `json:"capacity" validate:"required,gt=0"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Venue       *string    `json:"venue" validate:"omitempty,min=3,max=200"`
	City        *string    `json:"city" validate:"omitempty,min=2,max=100"`
	StartsAt    *time.Time `json:"starts_at"`
	TicketPrice *float64   `json:"ticket_price" validate:"omitempty,gt=0"`
	Capacity    *int       `json:"capacity" validate:"omitempty,gt=0"`
}

type EventService interface {
	CreateEvent(db *gorm.DB, hostID string, req *CreateEventRequest) (*models.Event, error)
	UpdateEvent(db *gorm.DB, hostID, eventID string, req *UpdateEventRequest) (*models.Event, error)
	PublishEvent(db *gorm.DB, hostID, eventID string) error
	CancelEvent(db *gorm.DB, hostID, eventID string) error
	ListMyEvents(db *gorm.DB, hostID string) ([]models.Event, error)
	BrowseEvents(db *gorm.DB, city string, limit, offset int) ([]models.Event, error)
	GetEvent(db *gorm.DB, eventID string) (*models.Event, error)
}

type eventService struct {
	eventRepo repositories.EventRepository
	userRepo  repositories.UserRepository
	kycRepo   repositories.KycRepository
}

func NewEventService(eventRepo repositories.EventRepository, userRepo repositories.UserRepository, kycRepo repositories.KycRepository) EventService {
	return &eventService{eventRepo: eventRepo, userRepo: userRepo, kycRepo: kycRepo}
}

func (s *eventService) CreateEvent(db *gorm.DB, hostID string, req *CreateEventRequest) (*models.Event, error) {
	if err := s.requireHost(db, hostID); err != nil {
		return nil, err
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, apperrors.NewBadRequestError("Event start must be in the future")
	}

	event := &models.Event{
		HostID:      hostID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		City:        req.City,
		StartsAt:    req.StartsAt,
		TicketPrice: decimal.NewFromFloat(req.TicketPrice),
		Capacity:    req.Capacity,
		Status:      models.EventStatusDraft,
	}
	if err := s.eventRepo.Create(db, event); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(db *gorm.DB, hostID, eventID string, req *UpdateEventRequest) (*models.Event, error) {
	event, err := s.findOwned(db, eventID, hostID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.City != nil {
		event.City = *req.City
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.TicketPrice != nil {
		event.TicketPrice = decimal.NewFromFloat(*req.TicketPrice)
	}
	if req.Capacity != nil {
		if *req.Capacity < event.TicketsSold {
			return nil, apperrors.NewConflictError("event", "Capacity cannot drop below tickets already sold")
		}
		event.Capacity = *req.Capacity
	}

	if err := s.eventRepo.Update(db, event); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return event, nil
}

// PublishEvent makes a draft bookable. Only hosts with approved verification
// can publish; drafting is open so onboarding hosts can prepare events while
// their documents are in review.
func (s *eventService) PublishEvent(db *gorm.DB, hostID, eventID string) error {
	event, err := s.findOwned(db, eventID, hostID)
	if err != nil {
		return err
	}
	if event.Status != models.EventStatusDraft {
		return apperrors.NewInvalidStatusError("event", "Only draft events can be published")
	}

	if _, err := s.kycRepo.FindApprovedHostByUser(db, hostID); err != nil {
		if errors.Is(err, repositories.ErrKycNotFound) {
			return apperrors.ErrKycNotApproved
		}
		return apperrors.InternalError(err)
	}

	event.Status = models.EventStatusPublished
	if err := s.eventRepo.Update(db, event); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *eventService) CancelEvent(db *gorm.DB, hostID, eventID string) error {
	event, err := s.findOwned(db, eventID, hostID)
	if err != nil {
		return err
	}
	if event.Status == models.EventStatusCancelled {
		return apperrors.NewInvalidStatusError("event", "Event is already cancelled")
	}

	event.Status = models.EventStatusCancelled
	if err := s.eventRepo.Update(db, event); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *eventService) ListMyEvents(db *gorm.DB, hostID string) ([]models.Event, error) {
	events, err := s.eventRepo.ListByHost(db, hostID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return events, nil
}

func (s *eventService) BrowseEvents(db *gorm.DB, city string, limit, offset int) ([]models.Event, error) {
	events, err := s.eventRepo.ListPublished(db, city, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return events, nil
}

func (s *eventService) GetEvent(db *gorm.DB, eventID string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(db, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.NewNotFoundError("event", "Event not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return event, nil
}

func (s *eventService) requireHost(db *gorm.DB, userID string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return apperrors.NewUnauthorizedError("Unknown user")
	}
	if user.Role != models.UserRoleHost {
		return apperrors.ErrInvalidUserRole
	}
	if user.Status != models.UserStatusActive {
		return apperrors.NewForbiddenError("Account is not active")
	}
	return nil
}

func (s *eventService) findOwned(db *gorm.DB, eventID, hostID string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(db, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.NewNotFoundError("event", "Event not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if event.HostID != hostID {
		return nil, apperrors.NewForbiddenError("You do not own this event")
	}
	return event, nil
}
