package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localmarket/commercehub/internal/models"
	"github.com/localmarket/commercehub/internal/notifier"
	"github.com/localmarket/commercehub/internal/repository"
	"github.com/localmarket/commercehub/internal/utils"
	"github.com/localmarket/commercehub/pkg/logger"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrRoleImmutable = errors.New("cannot update role")
)

// UserUpdateInput is the allow-list of self-service updatable fields.
// Role is deliberately absent; a request carrying one is rejected upstream.
type UserUpdateInput struct {
	Name        *string
	Email       *string
	Password    *string
	Age         *int
	City        *string
	Interest    []string
	AllowOffers *bool
}

type UserService struct {
	userRepo        *repository.UserRepository
	commerceRepo    *repository.CommerceRepository
	webCommerceRepo *repository.WebCommerceRepository
	notify          notifier.Notifier
}

func NewUserService(userRepo *repository.UserRepository, commerceRepo *repository.CommerceRepository, webCommerceRepo *repository.WebCommerceRepository, notify notifier.Notifier) *UserService {
	return &UserService{
		userRepo:        userRepo,
		commerceRepo:    commerceRepo,
		webCommerceRepo: webCommerceRepo,
		notify:          notify,
	}
}

// Update merges the allowed fields into the calling user's own record.
func (s *UserService) Update(userID uuid.UUID, in UserUpdateInput) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		logger.Log.Error("Failed to load user for update",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error updating user: %v", err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, errors.New("name is required")
		}
		fields["name"] = *in.Name
	}
	if in.Email != nil {
		if !emailRegex.MatchString(*in.Email) {
			return nil, errors.New("invalid email format")
		}
		fields["email"] = *in.Email
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, errors.New("password must be at least 6 characters")
		}
		hashed, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hashed
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return nil, errors.New("age must not be negative")
		}
		fields["age"] = *in.Age
	}
	if in.City != nil {
		if *in.City == "" {
			return nil, errors.New("city is required")
		}
		fields["city"] = *in.City
	}
	if in.Interest != nil {
		fields["interest"] = models.StringList(in.Interest)
	}
	if in.AllowOffers != nil {
		fields["allow_offers"] = *in.AllowOffers
	}

	if err := s.userRepo.UpdateUser(userID, fields); err != nil {
		logger.Log.Error("Failed to update user",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error updating user: %v", err))
		return nil, err
	}

	updated, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User updated",
		zap.String("user_id", userID.String()),
		zap.Int("fields", len(fields)),
	)

	return updated, nil
}

// Delete removes the calling user's own record.
func (s *UserService) Delete(userID uuid.UUID) error {
	affected, err := s.userRepo.DeleteUser(userID)
	if err != nil {
		logger.Log.Error("Failed to delete user",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error deleting user: %v", err))
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	logger.Log.Info("User deleted",
		zap.String("user_id", userID.String()),
	)

	return nil
}

// InterestedEmails resolves the commerce's storefront activity and returns
// the email of every offer-opted user whose interests contain it.
func (s *UserService) InterestedEmails(cif string) ([]string, error) {
	commerce, err := s.commerceRepo.GetCommerceByCIF(cif)
	if err != nil {
		s.notify.Notify(fmt.Sprintf("Error fetching interested users' emails: %v", err))
		return nil, err
	}
	if commerce == nil {
		return nil, ErrCommerceNotFound
	}

	web, err := s.webCommerceRepo.GetWebCommerceByCIF(cif)
	if err != nil {
		s.notify.Notify(fmt.Sprintf("Error fetching interested users' emails: %v", err))
		return nil, err
	}
	if web == nil {
		return nil, ErrStorefrontNotFound
	}

	users, err := s.userRepo.GetOfferUsers()
	if err != nil {
		logger.Log.Error("Failed to fetch offer users",
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error fetching interested users' emails: %v", err))
		return nil, err
	}

	emails := []string{}
	for _, user := range users {
		if user.Interest.Contains(web.Activity) {
			emails = append(emails, user.Email)
		}
	}

	logger.Log.Info("Resolved interested users",
		zap.String("cif", cif),
		zap.String("activity", web.Activity),
		zap.Int("count", len(emails)),
	)

	return emails, nil
}
