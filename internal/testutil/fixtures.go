package testutil

import (
	"github.com/google/uuid"

	"github.com/localmarket/commercehub/internal/models"
	"github.com/localmarket/commercehub/internal/utils"
)

// CreateTestUser builds a user with a hashed password, ready to insert.
func CreateTestUser(name, email, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Age:          30,
		City:         "Madrid",
		Interest:     models.StringList{"Retail"},
		AllowOffers:  true,
		Role:         role,
	}, nil
}

// DefaultAdminUser returns a ready-made admin account.
func DefaultAdminUser() (*models.User, error) {
	return CreateTestUser("admin", "admin@example.com", "Admin123456", models.RoleAdmin)
}

// CreateTestCommerce builds a commerce with valid cif/phone formats.
func CreateTestCommerce(cif string) *models.Commerce {
	return &models.Commerce{
		CIF:     cif,
		Name:    "Test Commerce",
		Address: "Calle Mayor 1",
		Email:   "commerce@example.com",
		Phone:   "123-456-7890",
		PageID:  1,
	}
}

// CreateTestStorefront builds a storefront for the given commerce cif.
func CreateTestStorefront(cif, city, activity string) *models.WebCommerce {
	return &models.WebCommerce{
		CommerceCIF: cif,
		City:        city,
		Activity:    activity,
		Title:       "Test Storefront",
		Summary:     "A storefront used in tests",
		Text:        models.StringList{"First paragraph"},
		Images:      models.StringList{},
	}
}
