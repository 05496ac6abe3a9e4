package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/expense-approval/internal"
	userDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	GetProfile(ctx context.Context, userID int64) (*User, error)
	ListCompanyUsers(ctx context.Context, actorID int64) ([]*User, error)
	CreateUser(ctx context.Context, actorID int64, dto CreateUserDTO) (*User, error)
	AssignManager(ctx context.Context, actorID, userID int64, dto AssignManagerDTO) (*User, error)
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("Server error while fetching user.", err)
	}
	return FromDataModel(u), nil
}

func (s *Service) ListCompanyUsers(ctx context.Context, actorID int64) ([]*User, error) {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, internal.NewInternalError("Server error while fetching users.", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

// CreateUser adds a user to the admin's company, optionally reporting to an
// existing user of the same company.
func (s *Service) CreateUser(ctx context.Context, actorID int64, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if dto.ManagerID != nil {
		manager, err := s.repo.GetByID(ctx, *dto.ManagerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, internal.ErrInvalidManager
			}
			return nil, internal.NewInternalError("Server error while creating user.", err)
		}
		if manager.CompanyID != actor.CompanyID {
			return nil, internal.ErrInvalidManager
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("Server error while creating user.", err)
	}

	row := &userDatamodel.User{
		CompanyID:    actor.CompanyID,
		FullName:     dto.FullName,
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         dto.Role,
		ManagerID:    dto.ManagerID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, internal.ErrEmailTaken
		}
		return nil, internal.NewInternalError("Server error while creating user.", err)
	}

	s.logger.InfoContext(ctx, "user created",
		"user_id", row.ID,
		"company_id", row.CompanyID,
		"role", row.Role,
		"created_by", actorID)

	return FromDataModel(row), nil
}

func (s *Service) AssignManager(ctx context.Context, actorID, userID int64, dto AssignManagerDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if dto.ManagerID != nil && *dto.ManagerID == userID {
		return nil, internal.ErrManagerCycle
	}

	row, err := s.repo.SetManager(ctx, actor.CompanyID, userID, dto.ManagerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, internal.ErrUserNotFound
		case errors.Is(err, ErrForeignManager):
			return nil, internal.ErrInvalidManager
		case errors.Is(err, ErrCycle):
			return nil, internal.ErrManagerCycle
		default:
			return nil, internal.NewInternalError("Server error while assigning manager.", err)
		}
	}

	s.logger.InfoContext(ctx, "manager assigned",
		"user_id", userID,
		"manager_id", dto.ManagerID,
		"assigned_by", actorID)

	return FromDataModel(row), nil
}

// requireAdmin loads the actor from the store; the role in the token is not
// trusted on its own.
func (s *Service) requireAdmin(ctx context.Context, actorID int64) (*userDatamodel.User, error) {
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.NewInternalError("Server error.", err)
	}
	if actor.Role != internal.RoleAdmin {
		return nil, internal.ErrAdminRequired
	}
	return actor, nil
}
