package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/localmarket/commercehub/internal/models"
	"github.com/localmarket/commercehub/internal/notifier"
	"github.com/localmarket/commercehub/internal/repository"
	"github.com/localmarket/commercehub/internal/utils"
	"github.com/localmarket/commercehub/pkg/logger"
)

var (
	ErrCommerceNotFound = errors.New("commerce not found")
	ErrCIFAlreadyExists = errors.New("cif already in use")
	ErrCIFImmutable     = errors.New("cannot update cif")

	cifRegex   = regexp.MustCompile(`^[A-Z0-9]{8,9}$`)
	phoneRegex = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// CommerceInput carries the fields accepted when an admin registers a merchant.
type CommerceInput struct {
	Name    string
	CIF     string
	Address string
	Email   string
	Phone   string
	PageID  int
}

// CommerceUpdateInput is the allow-list of admin-updatable fields. The CIF is
// immutable; any attempt to change it is rejected before the merge.
type CommerceUpdateInput struct {
	Name    *string
	Address *string
	Email   *string
	Phone   *string
	PageID  *int
}

type CommerceService struct {
	commerceRepo  *repository.CommerceRepository
	notify        notifier.Notifier
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewCommerceService(commerceRepo *repository.CommerceRepository, notify notifier.Notifier, jwtSecret string, jwtExpiration time.Duration) *CommerceService {
	return &CommerceService{
		commerceRepo:  commerceRepo,
		notify:        notify,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *CommerceService) List() ([]*models.Commerce, error) {
	commerces, err := s.commerceRepo.GetAllCommerces()
	if err != nil {
		logger.Log.Error("Failed to list commerces",
			zap.Error(err),
		)
		return nil, err
	}
	return commerces, nil
}

// RefreshAndGet returns the commerce and, as part of the contract, mints a
// fresh commerce-scoped token and persists it on the record. This is the only
// way a commerce obtains its bearer credential; there is no commerce login.
func (s *CommerceService) RefreshAndGet(cif string) (*models.Commerce, error) {
	if !cifRegex.MatchString(cif) {
		return nil, errors.New("cif must be 8 to 9 uppercase letters and numbers")
	}

	commerce, err := s.commerceRepo.GetCommerceByCIF(cif)
	if err != nil {
		logger.Log.Error("Failed to load commerce",
			zap.String("cif", cif),
			zap.Error(err),
		)
		return nil, err
	}
	if commerce == nil {
		return nil, ErrCommerceNotFound
	}

	token, err := utils.GenerateCommerceToken(cif, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to mint commerce token",
			zap.String("cif", cif),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.commerceRepo.UpdateToken(cif, token); err != nil {
		logger.Log.Error("Failed to persist commerce token",
			zap.String("cif", cif),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error refreshing commerce token: %v", err))
		return nil, err
	}
	commerce.Token = token

	logger.Log.Info("Commerce token refreshed",
		zap.String("cif", cif),
	)

	return commerce, nil
}

func (s *CommerceService) Create(in CommerceInput) (*models.Commerce, error) {
	if err := validateCommerceInput(in); err != nil {
		logger.Log.Warn("Commerce validation failed",
			zap.String("cif", in.CIF),
			zap.Error(err),
		)
		return nil, err
	}

	existing, err := s.commerceRepo.GetCommerceByCIF(in.CIF)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("CIF already in use",
			zap.String("cif", in.CIF),
		)
		return nil, ErrCIFAlreadyExists
	}

	commerce := &models.Commerce{
		CIF:     in.CIF,
		Name:    in.Name,
		Address: in.Address,
		Email:   in.Email,
		Phone:   in.Phone,
		PageID:  in.PageID,
	}

	if err := s.commerceRepo.CreateCommerce(commerce); err != nil {
		logger.Log.Error("Failed to create commerce",
			zap.String("cif", in.CIF),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error creating commerce: %v", err))
		return nil, err
	}

	logger.Log.Info("Commerce created",
		zap.String("cif", commerce.CIF),
		zap.String("name", commerce.Name),
	)

	return commerce, nil
}

// Update applies the allow-listed partial to an existing commerce.
// requestedCIF is what the client sent in the body, if anything; a value that
// differs from the path cif is an attempt to rewrite the key and is refused.
func (s *CommerceService) Update(cif, requestedCIF string, in CommerceUpdateInput) error {
	if requestedCIF != "" && requestedCIF != cif {
		return ErrCIFImmutable
	}

	commerce, err := s.commerceRepo.GetCommerceByCIF(cif)
	if err != nil {
		return err
	}
	if commerce == nil {
		return ErrCommerceNotFound
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return errors.New("name is required")
		}
		fields["name"] = *in.Name
	}
	if in.Address != nil {
		if *in.Address == "" {
			return errors.New("address is required")
		}
		fields["address"] = *in.Address
	}
	if in.Email != nil {
		if !emailRegex.MatchString(*in.Email) {
			return errors.New("invalid email format")
		}
		fields["email"] = *in.Email
	}
	if in.Phone != nil {
		if !phoneRegex.MatchString(*in.Phone) {
			return errors.New("phone must be in the format 123-456-7890")
		}
		fields["phone"] = *in.Phone
	}
	if in.PageID != nil {
		if *in.PageID < 1 {
			return errors.New("page id must be a positive integer")
		}
		fields["page_id"] = *in.PageID
	}

	if err := s.commerceRepo.UpdateCommerce(cif, fields); err != nil {
		logger.Log.Error("Failed to update commerce",
			zap.String("cif", cif),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error updating commerce: %v", err))
		return err
	}

	logger.Log.Info("Commerce updated",
		zap.String("cif", cif),
		zap.Int("fields", len(fields)),
	)

	return nil
}

// Delete removes the commerce record. The commerce's storefront, if any, is
// left in place; orphaned storefronts stay reachable by CIF.
func (s *CommerceService) Delete(cif string) error {
	affected, err := s.commerceRepo.DeleteCommerce(cif)
	if err != nil {
		logger.Log.Error("Failed to delete commerce",
			zap.String("cif", cif),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error deleting commerce: %v", err))
		return err
	}
	if affected == 0 {
		return ErrCommerceNotFound
	}

	logger.Log.Info("Commerce deleted",
		zap.String("cif", cif),
	)

	return nil
}

func validateCommerceInput(in CommerceInput) error {
	if in.Name == "" {
		return errors.New("name is required")
	}
	if !cifRegex.MatchString(in.CIF) {
		return errors.New("cif must be 8 to 9 uppercase letters and numbers")
	}
	if in.Address == "" {
		return errors.New("address is required")
	}
	if !emailRegex.MatchString(in.Email) {
		return errors.New("invalid email format")
	}
	if !phoneRegex.MatchString(in.Phone) {
		return errors.New("phone must be in the format 123-456-7890")
	}
	if in.PageID < 1 {
		return errors.New("page id must be a positive integer")
	}
	return nil
}
