package service

import (
	"context"

	"github.com/juju/errors"

	"go-retail-store/internal/access"
	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
	"go-retail-store/internal/repository"
	"go-retail-store/pkg/validator"
)

type UserService interface {
	CreateUser(ctx context.Context, actor access.Actor, req *CreateUserRequest) (*model.User, error)
	ListUsers(ctx context.Context, actor access.Actor) ([]model.UserResponse, error)
	DeleteUser(ctx context.Context, actor access.Actor, id uint) error
	ListGroups(ctx context.Context, actor access.Actor) ([]model.Group, error)
	SeedAdmin(ctx context.Context, login, password string) error
}

type CreateUserRequest struct {
	Login    string      `json:"login" validate:"required,max=50"`
	Name     string      `json:"name" validate:"required,max=100"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     access.Role `json:"role" validate:"required"`
}

type userService struct {
	userRepo  repository.UserRepository
	groupRepo repository.GroupRepository
	policy    *access.Policy
}

func NewUserService(userRepo repository.UserRepository, groupRepo repository.GroupRepository, policy *access.Policy) UserService {
	return &userService{
		userRepo:  userRepo,
		groupRepo: groupRepo,
		policy:    policy,
	}
}

func (s *userService) CreateUser(ctx context.Context, actor access.Actor, req *CreateUserRequest) (*model.User, error) {
	if err := s.policy.Check(actor, access.ResourceUsers, access.Write); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, errors.Annotatef(storeerrors.InvalidArgument, "role %q", req.Role)
	}

	group, err := s.groupRepo.FindByName(ctx, string(req.Role))
	if err != nil {
		return nil, errors.Trace(err)
	}

	user := &model.User{
		Login:    req.Login,
		Name:     req.Name,
		GroupID:  group.ID,
		Group:    group,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.Annotate(err, "hashing password")
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Trace(err)
	}

	logger.Infof("%s created user %q in group %s", actor.Name, user.Login, group.Name)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actor access.Actor) ([]model.UserResponse, error) {
	if err := s.policy.Check(actor, access.ResourceUsers, access.Read); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}

	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor access.Actor, id uint) error {
	if err := s.policy.Check(actor, access.ResourceUsers, access.Write); err != nil {
		return err
	}
	if id == actor.UserID {
		return errors.Annotate(storeerrors.InvalidArgument, "cannot delete your own account")
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) ListGroups(ctx context.Context, actor access.Actor) ([]model.Group, error) {
	if err := s.policy.Check(actor, access.ResourceGroups, access.Read); err != nil {
		return nil, err
	}
	return s.groupRepo.FindAll(ctx)
}

// SeedAdmin creates the account groups and, when no account with login
// exists yet, a manager account.
func (s *userService) SeedAdmin(ctx context.Context, login, password string) error {
	if err := s.groupRepo.SeedDefaults(ctx); err != nil {
		return errors.Trace(err)
	}

	_, err := s.userRepo.FindByLogin(ctx, login)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storeerrors.NotFound) {
		return errors.Trace(err)
	}

	_, err = s.CreateUser(ctx, access.System, &CreateUserRequest{
		Login:    login,
		Name:     "Administrador",
		Password: password,
		Role:     access.RoleManager,
	})
	if err != nil {
		return errors.Annotatef(err, "seeding account %q", login)
	}
	logger.Infof("seeded manager account %q", login)
	return nil
}
