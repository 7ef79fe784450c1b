package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/localmarket/commercehub/internal/models"
	"github.com/localmarket/commercehub/internal/notifier"
	"github.com/localmarket/commercehub/internal/repository"
	"github.com/localmarket/commercehub/internal/service"
	"github.com/localmarket/commercehub/internal/testutil"
	"github.com/localmarket/commercehub/internal/utils"
	"github.com/localmarket/commercehub/pkg/logger"
)

const testJWTSecret = "test-secret-key"

type CommerceServiceTestSuite struct {
	suite.Suite
	testDB          *testutil.TestDatabase
	commerceRepo    *repository.CommerceRepository
	commerceService *service.CommerceService
}

func (s *CommerceServiceTestSuite) SetupSuite() {
	require.NoError(s.T(), logger.Init(false))

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.commerceRepo = repository.NewCommerceRepository(s.testDB.DB)
	s.commerceService = service.NewCommerceService(s.commerceRepo, notifier.Nop{}, testJWTSecret, 2*time.Hour)
}

func (s *CommerceServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *CommerceServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func validInput(cif string) service.CommerceInput {
	return service.CommerceInput{
		Name:    "Panaderia Sol",
		CIF:     cif,
		Address: "Calle Mayor 1",
		Email:   "sol@example.com",
		Phone:   "123-456-7890",
		PageID:  1,
	}
}

func (s *CommerceServiceTestSuite) TestCreate_Success() {
	commerce, err := s.commerceService.Create(validInput("A12345678"))

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "A12345678", commerce.CIF)
	assert.Empty(s.T(), commerce.Token, "No token is issued at creation")
}

func (s *CommerceServiceTestSuite) TestCreate_DuplicateCIF() {
	_, err := s.commerceService.Create(validInput("A12345678"))
	require.NoError(s.T(), err)

	_, err = s.commerceService.Create(validInput("A12345678"))
	assert.ErrorIs(s.T(), err, service.ErrCIFAlreadyExists)
}

func (s *CommerceServiceTestSuite) TestCreate_InvalidInput() {
	testCases := []struct {
		name   string
		mutate func(*service.CommerceInput)
	}{
		{"cif too short", func(in *service.CommerceInput) { in.CIF = "A1234" }},
		{"cif too long", func(in *service.CommerceInput) { in.CIF = "A123456789" }},
		{"cif lowercase", func(in *service.CommerceInput) { in.CIF = "a12345678" }},
		{"bad phone", func(in *service.CommerceInput) { in.Phone = "1234567890" }},
		{"bad email", func(in *service.CommerceInput) { in.Email = "not-an-email" }},
		{"missing name", func(in *service.CommerceInput) { in.Name = "" }},
		{"missing address", func(in *service.CommerceInput) { in.Address = "" }},
		{"zero page id", func(in *service.CommerceInput) { in.PageID = 0 }},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			in := validInput("B87654321")
			tc.mutate(&in)

			_, err := s.commerceService.Create(in)
			assert.Error(s.T(), err)
		})
	}
}

func (s *CommerceServiceTestSuite) TestRefreshAndGet_MintsAndPersistsToken() {
	_, err := s.commerceService.Create(validInput("A12345678"))
	require.NoError(s.T(), err)

	commerce, err := s.commerceService.RefreshAndGet("A12345678")
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), commerce.Token)

	// The returned token must be a valid commerce credential for this cif
	claims, err := utils.ValidateCommerceToken(commerce.Token, testJWTSecret)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "A12345678", claims.CIF)

	// And it must be persisted on the record
	stored, err := s.commerceRepo.GetCommerceByCIF("A12345678")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), commerce.Token, stored.Token)
}

func (s *CommerceServiceTestSuite) TestRefreshAndGet_OverwritesPreviousToken() {
	_, err := s.commerceService.Create(validInput("A12345678"))
	require.NoError(s.T(), err)

	first, err := s.commerceService.RefreshAndGet("A12345678")
	require.NoError(s.T(), err)

	time.Sleep(1100 * time.Millisecond) // Tokens embed issued-at with second precision

	second, err := s.commerceService.RefreshAndGet("A12345678")
	require.NoError(s.T(), err)

	assert.NotEqual(s.T(), first.Token, second.Token, "Every lookup refreshes the credential")
}

func (s *CommerceServiceTestSuite) TestRefreshAndGet_NotFound() {
	_, err := s.commerceService.RefreshAndGet("Z99999999")
	assert.ErrorIs(s.T(), err, service.ErrCommerceNotFound)
}

func (s *CommerceServiceTestSuite) TestUpdate_RejectsCIFChange() {
	_, err := s.commerceService.Create(validInput("A12345678"))
	require.NoError(s.T(), err)

	err = s.commerceService.Update("A12345678", "B87654321", service.CommerceUpdateInput{})
	assert.ErrorIs(s.T(), err, service.ErrCIFImmutable)
}

func (s *CommerceServiceTestSuite) TestUpdate_AppliesAllowedFields() {
	_, err := s.commerceService.Create(validInput("A12345678"))
	require.NoError(s.T(), err)

	name := "Panaderia Luna"
	phone := "987-654-3210"
	err = s.commerceService.Update("A12345678", "", service.CommerceUpdateInput{
		Name:  &name,
		Phone: &phone,
	})
	require.NoError(s.T(), err)

	stored, err := s.commerceRepo.GetCommerceByCIF("A12345678")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Panaderia Luna", stored.Name)
	assert.Equal(s.T(), "987-654-3210", stored.Phone)
	assert.Equal(s.T(), "Calle Mayor 1", stored.Address, "Untouched fields stay put")
}

func (s *CommerceServiceTestSuite) TestUpdate_NotFound() {
	err := s.commerceService.Update("Z99999999", "", service.CommerceUpdateInput{})
	assert.ErrorIs(s.T(), err, service.ErrCommerceNotFound)
}

func (s *CommerceServiceTestSuite) TestDelete_Success() {
	_, err := s.commerceService.Create(validInput("A12345678"))
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.commerceService.Delete("A12345678"))

	stored, err := s.commerceRepo.GetCommerceByCIF("A12345678")
	require.NoError(s.T(), err)
	assert.Nil(s.T(), stored)
}

func (s *CommerceServiceTestSuite) TestDelete_NotFound() {
	err := s.commerceService.Delete("Z99999999")
	assert.ErrorIs(s.T(), err, service.ErrCommerceNotFound)
}

func (s *CommerceServiceTestSuite) TestDelete_DoesNotCascadeToStorefront() {
	_, err := s.commerceService.Create(validInput("A12345678"))
	require.NoError(s.T(), err)

	web := testutil.CreateTestStorefront("A12345678", "Madrid", "Retail")
	require.NoError(s.T(), s.testDB.DB.Create(web).Error)

	require.NoError(s.T(), s.commerceService.Delete("A12345678"))

	var count int64
	s.testDB.DB.Model(&models.WebCommerce{}).Where("commerce_cif = ?", "A12345678").Count(&count)
	assert.EqualValues(s.T(), 1, count, "The storefront is orphaned, not removed")
}

func TestCommerceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommerceServiceTestSuite))
}
