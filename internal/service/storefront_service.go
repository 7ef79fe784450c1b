package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/localmarket/commercehub/internal/models"
	"github.com/localmarket/commercehub/internal/notifier"
	"github.com/localmarket/commercehub/internal/repository"
	"github.com/localmarket/commercehub/pkg/logger"
)

var (
	ErrStorefrontNotFound = errors.New("web commerce not found")
	ErrStorefrontExists   = errors.New("web commerce already exists for this cif")
	ErrNotOwner           = errors.New("cif does not match the authenticated commerce")
	ErrInvalidAction      = errors.New("invalid action")
	ErrInvalidRating      = errors.New("rating must be between 0 and 5")
)

const (
	ActionArchive = "archive"
	ActionDelete  = "delete"
)

// StorefrontInput carries the fields accepted at storefront creation.
type StorefrontInput struct {
	CommerceCIF string
	City        string
	Activity    string
	Title       string
	Summary     string
	Text        []string
	Images      []string
}

// StorefrontUpdateInput is the allow-list of owner-updatable fields. The
// commerce CIF and the review aggregates are never updatable.
type StorefrontUpdateInput struct {
	City     *string
	Activity *string
	Title    *string
	Summary  *string
	Text     []string
}

type StorefrontService struct {
	webCommerceRepo *repository.WebCommerceRepository
	notify          notifier.Notifier
}

func NewStorefrontService(webCommerceRepo *repository.WebCommerceRepository, notify notifier.Notifier) *StorefrontService {
	return &StorefrontService{
		webCommerceRepo: webCommerceRepo,
		notify:          notify,
	}
}

// GetByCIF returns the storefront for a commerce. Archived storefronts are
// returned as well; archival only flags the record.
func (s *StorefrontService) GetByCIF(cif string) (*models.WebCommerce, error) {
	web, err := s.webCommerceRepo.GetWebCommerceByCIF(cif)
	if err != nil {
		logger.Log.Error("Failed to load web commerce",
			zap.String("cif", cif),
			zap.Error(err),
		)
		return nil, err
	}
	if web == nil {
		return nil, ErrStorefrontNotFound
	}
	return web, nil
}

// Create builds the storefront for the authenticated commerce. ownerCIF comes
// from the resolved principal, never from the request.
func (s *StorefrontService) Create(ownerCIF string, in StorefrontInput) (*models.WebCommerce, error) {
	if in.CommerceCIF != ownerCIF {
		logger.Log.Warn("Storefront create for foreign cif refused",
			zap.String("owner_cif", ownerCIF),
			zap.String("requested_cif", in.CommerceCIF),
		)
		return nil, ErrNotOwner
	}
	if err := validateStorefrontInput(in); err != nil {
		return nil, err
	}

	existing, err := s.webCommerceRepo.GetWebCommerceByCIF(ownerCIF)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStorefrontExists
	}

	web := &models.WebCommerce{
		CommerceCIF: ownerCIF,
		City:        in.City,
		Activity:    in.Activity,
		Title:       in.Title,
		Summary:     in.Summary,
		Text:        models.StringList(in.Text),
		Images:      models.StringList(in.Images),
	}

	if err := s.webCommerceRepo.CreateWebCommerce(web); err != nil {
		logger.Log.Error("Failed to create web commerce",
			zap.String("cif", ownerCIF),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error creating web commerce: %v", err))
		return nil, err
	}

	logger.Log.Info("Web commerce created",
		zap.String("cif", ownerCIF),
		zap.String("city", web.City),
		zap.String("activity", web.Activity),
	)

	return web, nil
}

// Update merges the allowed fields into the principal's own storefront. Any
// cif supplied by the client is ignored in favor of ownerCIF, which makes
// cross-tenant writes impossible.
func (s *StorefrontService) Update(ownerCIF string, in StorefrontUpdateInput) (*models.WebCommerce, error) {
	web, err := s.webCommerceRepo.GetWebCommerceByCIF(ownerCIF)
	if err != nil {
		return nil, err
	}
	if web == nil {
		return nil, ErrStorefrontNotFound
	}

	fields := map[string]interface{}{}
	if in.City != nil {
		if *in.City == "" {
			return nil, errors.New("city is required")
		}
		fields["city"] = *in.City
	}
	if in.Activity != nil {
		if *in.Activity == "" {
			return nil, errors.New("activity is required")
		}
		fields["activity"] = *in.Activity
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, errors.New("title is required")
		}
		fields["title"] = *in.Title
	}
	if in.Summary != nil {
		if *in.Summary == "" {
			return nil, errors.New("summary is required")
		}
		fields["summary"] = *in.Summary
	}
	if in.Text != nil {
		if len(in.Text) == 0 {
			return nil, errors.New("text must be a non-empty array")
		}
		fields["text"] = models.StringList(in.Text)
	}

	if err := s.webCommerceRepo.UpdateWebCommerce(ownerCIF, fields); err != nil {
		logger.Log.Error("Failed to update web commerce",
			zap.String("cif", ownerCIF),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error updating web commerce: %v", err))
		return nil, err
	}

	logger.Log.Info("Web commerce updated",
		zap.String("cif", ownerCIF),
		zap.Int("fields", len(fields)),
	)

	return s.webCommerceRepo.GetWebCommerceByCIF(ownerCIF)
}

// ArchiveOrDelete either flags the principal's storefront as archived or
// physically removes it, depending on action.
func (s *StorefrontService) ArchiveOrDelete(ownerCIF, action string) error {
	web, err := s.webCommerceRepo.GetWebCommerceByCIF(ownerCIF)
	if err != nil {
		return err
	}
	if web == nil {
		return ErrStorefrontNotFound
	}

	switch action {
	case ActionArchive:
		if err := s.webCommerceRepo.ArchiveWebCommerce(ownerCIF); err != nil {
			s.notify.Notify(fmt.Sprintf("Error archiving web commerce: %v", err))
			return err
		}
		logger.Log.Info("Web commerce archived",
			zap.String("cif", ownerCIF),
		)
	case ActionDelete:
		if _, err := s.webCommerceRepo.DeleteWebCommerce(ownerCIF); err != nil {
			s.notify.Notify(fmt.Sprintf("Error deleting web commerce: %v", err))
			return err
		}
		logger.Log.Info("Web commerce deleted",
			zap.String("cif", ownerCIF),
		)
	default:
		return ErrInvalidAction
	}

	return nil
}

// AttachImage records an uploaded asset path on the principal's storefront.
// Storage of the asset itself happens in the handler; this only appends the
// resulting public path.
func (s *StorefrontService) AttachImage(ownerCIF, imageURL string) (*models.WebCommerce, error) {
	web, err := s.webCommerceRepo.AppendImage(ownerCIF, imageURL)
	if err != nil {
		logger.Log.Error("Failed to append image",
			zap.String("cif", ownerCIF),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error uploading image: %v", err))
		return nil, err
	}
	if web == nil {
		return nil, ErrStorefrontNotFound
	}

	logger.Log.Info("Image attached to web commerce",
		zap.String("cif", ownerCIF),
		zap.String("url", imageURL),
	)

	return web, nil
}

func (s *StorefrontService) ListAll() ([]*models.WebCommerce, error) {
	return s.webCommerceRepo.GetAllWebCommerces()
}

// ListBy returns storefronts matching the optional city/activity filters,
// sorted by descending scoring when sortBy is "scoring".
func (s *StorefrontService) ListBy(city, activity, sortBy string) ([]*models.WebCommerce, error) {
	return s.webCommerceRepo.FindWebCommerces(city, activity, sortBy == "scoring")
}

// AddReview appends a review to the storefront and folds the rating into the
// running aggregate. Reviews are append-only; any authenticated user may
// submit one.
func (s *StorefrontService) AddReview(cif, body string, rating float64) error {
	if rating < 0 || rating > 5 {
		return ErrInvalidRating
	}
	if body == "" {
		return errors.New("review is required")
	}

	web, err := s.webCommerceRepo.GetWebCommerceByCIF(cif)
	if err != nil {
		return err
	}
	if web == nil {
		return ErrStorefrontNotFound
	}

	review := &models.Review{
		Body:   body,
		Rating: rating,
	}
	if err := s.webCommerceRepo.AddReview(cif, review); err != nil {
		logger.Log.Error("Failed to add review",
			zap.String("cif", cif),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error adding review: %v", err))
		return err
	}

	logger.Log.Info("Review added",
		zap.String("cif", cif),
		zap.Float64("rating", rating),
	)

	return nil
}

func validateStorefrontInput(in StorefrontInput) error {
	if !cifRegex.MatchString(in.CommerceCIF) {
		return errors.New("cif must be 8 to 9 uppercase letters and numbers")
	}
	if in.City == "" {
		return errors.New("city is required")
	}
	if in.Activity == "" {
		return errors.New("activity is required")
	}
	if in.Title == "" {
		return errors.New("title is required")
	}
	if in.Summary == "" {
		return errors.New("summary is required")
	}
	if len(in.Text) == 0 {
		return errors.New("text must be a non-empty array")
	}
	return nil
}
