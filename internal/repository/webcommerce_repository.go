package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/localmarket/commercehub/internal/models"
)

type WebCommerceRepository struct {
	db *gorm.DB
}

func NewWebCommerceRepository(db *gorm.DB) *WebCommerceRepository {
	return &WebCommerceRepository{db: db}
}

func (r *WebCommerceRepository) CreateWebCommerce(web *models.WebCommerce) error {
	return r.db.Create(web).Error
}

// GetWebCommerceByCIF returns the storefront for a commerce regardless of its
// archival state. Archival is a visibility flag, not a filter.
func (r *WebCommerceRepository) GetWebCommerceByCIF(cif string) (*models.WebCommerce, error) {
	var web models.WebCommerce
	err := r.db.Preload("Reviews").Where("commerce_cif = ?", cif).First(&web).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &web, nil
}

func (r *WebCommerceRepository) GetAllWebCommerces() ([]*models.WebCommerce, error) {
	var webs []*models.WebCommerce
	err := r.db.Find(&webs).Error
	if err != nil {
		return nil, err
	}
	return webs, nil
}

// FindWebCommerces applies optional city/activity equality filters. When
// sortByScoring is set, results come back ordered by descending average
// rating; otherwise insertion order is kept.
func (r *WebCommerceRepository) FindWebCommerces(city, activity string, sortByScoring bool) ([]*models.WebCommerce, error) {
	query := r.db.Model(&models.WebCommerce{})
	if city != "" {
		query = query.Where("city = ?", city)
	}
	if activity != "" {
		query = query.Where("activity = ?", activity)
	}
	if sortByScoring {
		query = query.Order("scoring DESC")
	} else {
		query = query.Order("id ASC")
	}

	var webs []*models.WebCommerce
	if err := query.Find(&webs).Error; err != nil {
		return nil, err
	}
	return webs, nil
}

func (r *WebCommerceRepository) UpdateWebCommerce(cif string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.WebCommerce{}).Where("commerce_cif = ?", cif).Updates(fields).Error
}

func (r *WebCommerceRepository) ArchiveWebCommerce(cif string) error {
	return r.db.Model(&models.WebCommerce{}).Where("commerce_cif = ?", cif).Update("is_archived", true).Error
}

func (r *WebCommerceRepository) DeleteWebCommerce(cif string) (int64, error) {
	res := r.db.Where("commerce_cif = ?", cif).Delete(&models.WebCommerce{})
	return res.RowsAffected, res.Error
}

// AppendImage adds an uploaded asset path to the storefront's image list.
// The list is read and rewritten inside a transaction; images are append-only
// so no ordering is lost.
func (r *WebCommerceRepository) AppendImage(cif, imageURL string) (*models.WebCommerce, error) {
	var web models.WebCommerce

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("commerce_cif = ?", cif).First(&web).Error; err != nil {
			return err
		}
		web.Images = append(web.Images, imageURL)
		return tx.Model(&web).Update("images", web.Images).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &web, nil
}

// AddReview inserts the review row and bumps the running aggregate in the
// same transaction. The aggregate update is a single SQL expression over
// rating_sum/total_reviews, so concurrent reviews cannot lose each other's
// contribution to the mean.
func (r *WebCommerceRepository) AddReview(cif string, review *models.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var web models.WebCommerce
		if err := tx.Where("commerce_cif = ?", cif).First(&web).Error; err != nil {
			return err
		}

		review.WebCommerceID = web.ID
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		return tx.Model(&models.WebCommerce{}).
			Where("id = ?", web.ID).
			Updates(map[string]interface{}{
				"rating_sum":    gorm.Expr("rating_sum + ?", review.Rating),
				"total_reviews": gorm.Expr("total_reviews + 1"),
				"scoring":       gorm.Expr("(rating_sum + ?) / (total_reviews + 1)", review.Rating),
			}).Error
	})
}
