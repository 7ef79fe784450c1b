package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/localmarket/commercehub/internal/models"
)

type CommerceRepository struct {
	db *gorm.DB
}

func NewCommerceRepository(db *gorm.DB) *CommerceRepository {
	return &CommerceRepository{db: db}
}

func (r *CommerceRepository) CreateCommerce(commerce *models.Commerce) error {
	return r.db.Create(commerce).Error
}

func (r *CommerceRepository) GetCommerceByCIF(cif string) (*models.Commerce, error) {
	var commerce models.Commerce
	err := r.db.Where("cif = ?", cif).First(&commerce).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &commerce, nil
}

func (r *CommerceRepository) GetAllCommerces() ([]*models.Commerce, error) {
	var commerces []*models.Commerce
	err := r.db.Order("created_at DESC").Find(&commerces).Error
	if err != nil {
		return nil, err
	}
	return commerces, nil
}

// UpdateCommerce persists an explicit set of columns. The cif column is never
// part of the map; the service rejects any attempt to change it upstream.
func (r *CommerceRepository) UpdateCommerce(cif string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Commerce{}).Where("cif = ?", cif).Updates(fields).Error
}

// UpdateToken overwrites the stored bearer credential for a commerce.
func (r *CommerceRepository) UpdateToken(cif, token string) error {
	return r.db.Model(&models.Commerce{}).Where("cif = ?", cif).Update("token", token).Error
}

func (r *CommerceRepository) DeleteCommerce(cif string) (int64, error) {
	res := r.db.Where("cif = ?", cif).Delete(&models.Commerce{})
	return res.RowsAffected, res.Error
}
