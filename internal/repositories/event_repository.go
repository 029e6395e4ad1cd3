package repositories

import (
	"errors"

	"festmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(db *gorm.DB, event *models.Event) error
	FindByID(db *gorm.DB, id string) (*models.Event, error)
	Update(db *gorm.DB, event *models.Event) error
	Delete(db *gorm.DB, id, hostID string) error
	ListByHost(db *gorm.DB, hostID string) ([]models.Event, error)
	ListPublished(db *gorm.DB, city string, limit, offset int) ([]models.Event, error)

	// ReserveTickets bumps tickets_sold only while capacity still covers the
	// request; false means the event sold out (or vanished) in between.
	ReserveTickets(db *gorm.DB, eventID string, quantity int) (bool, error)
}

type eventRepository struct{}

func NewEventRepository() EventRepository {
	return &eventRepository{}
}

func (r *eventRepository) Create(db *gorm.DB, event *models.Event) error {
	return db.Create(event).Error
}

func (r *eventRepository) FindByID(db *gorm.DB, id string) (*models.Event, error) {
	var event models.Event
	err := db.First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(db *gorm.DB, event *models.Event) error {
	return db.Save(event).Error
}

func (r *eventRepository) Delete(db *gorm.DB, id, hostID string) error {
	result := db.Delete(&models.Event{}, "id = ? AND host_id = ?", id, hostID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) ListByHost(db *gorm.DB, hostID string) ([]models.Event, error) {
	var events []models.Event
	err := db.Where("host_id = ?", hostID).Order("starts_at DESC").Find(&events).Error
	return events, err
}

func (r *eventRepository) ListPublished(db *gorm.DB, city string, limit, offset int) ([]models.Event, error) {
	query := db.Where("status = ?", models.EventStatusPublished)
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var events []models.Event
	err := query.Order("starts_at ASC").Limit(limit).Offset(offset).Find(&events).Error
	return events, err
}

func (r *eventRepository) ReserveTickets(db *gorm.DB, eventID string, quantity int) (bool, error) {
	result := db.Model(&models.Event{}).
		Where("id = ? AND status = ? AND tickets_sold + ? <= capacity",
			eventID, models.EventStatusPublished, quantity).
		Update("tickets_sold", gorm.Expr("tickets_sold + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
