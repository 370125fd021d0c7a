package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/internal/service/directory"
	"github.com/neuroscan/clinic-api/pkg/auth"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

// Service issues and verifies credentials on top of the user directory.
type Service struct {
	directory *directory.Service
	tokens    auth.TokenService
}

func NewService(dir *directory.Service, tokens auth.TokenService) *Service {
	return &Service{directory: dir, tokens: tokens}
}

// Login verifies the credential for the claimed role and returns a signed
// token. Failures are uniformly unauthenticated so callers cannot probe
// which accounts exist.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.directory.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Code(err) == errors.ErrNotFound {
			return nil, errors.Unauthenticated("invalid credentials")
		}
		return nil, err
	}

	if user.Role != req.Role {
		return nil, errors.Unauthenticated("invalid credentials")
	}
	if !s.directory.VerifyCredential(req.Password, user.PasswordHash) {
		return nil, errors.Unauthenticated("invalid credentials")
	}
	if !user.IsActive {
		return nil, errors.Unauthenticated("account is deactivated")
	}
	if user.Role == model.RoleDoctor && (user.Doctor == nil || !user.Doctor.ApprovedByAdmin) {
		return nil, errors.Unauthenticated("doctor account pending admin approval")
	}

	token, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}

// Signup registers a patient account. Doctor and admin accounts are created
// through the admin surface only.
func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	return s.directory.CreateUser(ctx, &model.CreateUserRequest{
		Email:            req.Email,
		Password:         req.Password,
		Role:             model.RolePatient,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		EmergencyContact: req.EmergencyContact,
	})
}

// VerifyToken resolves a bearer token to the acting identity.
func (s *Service) VerifyToken(token string) (model.Actor, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return model.Actor{}, errors.Unauthenticated("invalid or expired token")
	}

	role := model.Role(claims.Role)
	if claims.UserID == uuid.Nil || !role.Valid() {
		return model.Actor{}, errors.Unauthenticated("invalid or expired token")
	}

	return model.Actor{ID: claims.UserID, Role: role}, nil
}
