package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
)

var (
	ErrInvalidRole = errors.New("role must be admin or member")
	ErrLastAdmin   = errors.New("cannot demote the last admin")
)

// MemberService manages dashboard users and their roles.
type MemberService struct {
	userRepo repository.UserRepository
}

func NewMemberService(userRepo repository.UserRepository) *MemberService {
	return &MemberService{userRepo: userRepo}
}

func (s *MemberService) List() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return users, nil
}

// UpdateRole changes a member's role. At least one admin always remains.
func (s *MemberService) UpdateRole(id uint64, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrUserNotFound, "user")
	}
	if user.Role == role {
		return user, nil
	}

	if user.Role == models.RoleAdmin {
		admins, err := s.userRepo.CountByRole(models.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	if err := s.userRepo.UpdateRole(id, role); err != nil {
		return nil, findError(err, ErrUserNotFound, "user")
	}
	user.Role = role
	return user, nil
}
