package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

// CreateUserInput is the admin-side creation payload.
type CreateUserInput struct {
	Username  string
	Email     string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

type UserService interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error)
	Create(ctx context.Context, in CreateUserInput) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, patch UserPatch) (*models.User, error)
	Delete(ctx context.Context, username string) error
	// UpdateProfile edits the caller's own record. A role change is
	// silently dropped unless the caller holds admin capability.
	UpdateProfile(ctx context.Context, actor *models.User, patch UserPatch) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error) {
	return s.userRepo.Search(ctx, search, limit, offset)
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	fe := FieldErrors{}
	if !usernamePattern.MatchString(in.Username) {
		fe.Add("username", "may contain only word characters and .@+-")
	} else if _, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil {
		fe.Add("username", "already in use")
	}
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		fe.Add("email", "already in use")
	}
	if in.Role != nil && !models.ValidRole(*in.Role) {
		fe.Add("role", "must be one of: user, moderator, admin")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      models.RoleUser,
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, username string, patch UserPatch) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, patch)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.userRepo.DeleteByUsername(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *models.User, patch UserPatch) (*models.User, error) {
	if !actor.IsAdmin() {
		// pin the role to its current value to block self-escalation
		patch.Role = nil
	}
	user, err := s.GetByUsername(ctx, actor.Username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, patch)
}

// apply merges a patch into user, re-validating the mutable fields.
func (s *userService) apply(ctx context.Context, user *models.User, patch UserPatch) (*models.User, error) {
	fe := FieldErrors{}

	if patch.Username != nil && *patch.Username != user.Username {
		if !usernamePattern.MatchString(*patch.Username) {
			fe.Add("username", "may contain only word characters and .@+-")
		} else if other, err := s.userRepo.FindByUsername(ctx, *patch.Username); err == nil && other.ID != user.ID {
			fe.Add("username", "already in use")
		}
	}
	if patch.Email != nil && *patch.Email != user.Email {
		if other, err := s.userRepo.FindByEmail(ctx, *patch.Email); err == nil && other.ID != user.ID {
			fe.Add("email", "already in use")
		}
	}
	if patch.Role != nil && !models.ValidRole(*patch.Role) {
		fe.Add("role", "must be one of: user, moderator, admin")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = patch.Bio
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
