package repositories

import (
	"errors"

	"festmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPackageNotFound = errors.New("subscription package not found")

type PackageRepository interface {
	Create(db *gorm.DB, pkg *models.SubscriptionPackage) error
	FindByID(db *gorm.DB, id string) (*models.SubscriptionPackage, error)
	FindVisible(db *gorm.DB) ([]models.SubscriptionPackage, error)
	FindAll(db *gorm.DB) ([]models.SubscriptionPackage, error)
	Update(db *gorm.DB, pkg *models.SubscriptionPackage) error
	Delete(db *gorm.DB, id string) error
	CountSubscribers(db *gorm.DB, packageID string) (int64, error)
}

type packageRepository struct{}

func NewPackageRepository() PackageRepository {
	return &packageRepository{}
}

func (r *packageRepository) Create(db *gorm.DB, pkg *models.SubscriptionPackage) error {
	return db.Create(pkg).Error
}

func (r *packageRepository) FindByID(db *gorm.DB, id string) (*models.SubscriptionPackage, error) {
	var pkg models.SubscriptionPackage
	err := db.First(&pkg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

// FindVisible returns the catalog shown to end users.
func (r *packageRepository) FindVisible(db *gorm.DB) ([]models.SubscriptionPackage, error) {
	var pkgs []models.SubscriptionPackage
	err := db.Where("is_active = ? AND is_hidden = ?", true, false).
		Order("price ASC").
		Find(&pkgs).Error
	return pkgs, err
}

func (r *packageRepository) FindAll(db *gorm.DB) ([]models.SubscriptionPackage, error) {
	var pkgs []models.SubscriptionPackage
	err := db.Order("created_at ASC").Find(&pkgs).Error
	return pkgs, err
}

func (r *packageRepository) Update(db *gorm.DB, pkg *models.SubscriptionPackage) error {
	return db.Save(pkg).Error
}

func (r *packageRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.SubscriptionPackage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPackageNotFound
	}
	return nil
}

// CountSubscribers counts users currently holding the package; deletion is
// refused while this is non-zero.
func (r *packageRepository) CountSubscribers(db *gorm.DB, packageID string) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Where("active_package_id = ?", packageID).Count(&count).Error
	return count, err
}
