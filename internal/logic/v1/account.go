package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/task-service/internal/core/domain"
	"github.com/duynhne/task-service/middleware"
)

// AccountService implements user account business rules. It depends on the
// generic store contract and the credential service (injected via
// constructor) and MUST NOT access the database or SQL directly.
//
// Every path that returns a user goes through domain.User.Public, so a
// password hash can never leave this service.
type AccountService struct {
	store domain.Store
	creds *CredentialService
}

// NewAccountService creates a new AccountService with the given
// dependencies.
func NewAccountService(store domain.Store, creds *CredentialService) *AccountService {
	return &AccountService{store: store, creds: creds}
}

// Login verifies the email/password pair and issues a signed token.
// Every failure — missing fields, unknown email, wrong password, or an
// unexpected store error — collapses to ErrInvalidCredentials so the
// response never reveals which check failed. The underlying cause is
// logged here and discarded.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "account.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if email == "" || password == "" {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, fmt.Errorf("email and password are required: %w", ErrInvalidCredentials)
	}

	rows, err := s.store.Select(ctx, "users", domain.Filter{"email": email})
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Login query failed")
		return nil, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}
	if len(rows) == 0 {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}

	user := domain.UserFromRow(rows[0])
	if !s.creds.VerifyPassword(password, user.PasswordHash) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}

	token, err := s.creds.IssueToken(user.ID, user.Email)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Token issuance failed")
		return nil, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return &domain.AuthResponse{Token: token, UserID: user.ID, Email: user.Email}, nil
}

// Register hashes the password and inserts a new user. Email uniqueness
// is not pre-checked; a duplicate surfaces as the store's unique violation
// and maps to ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, email, password string) (*domain.PublicUser, error) {
	ctx, span := middleware.StartSpan(ctx, "account.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	row, err := s.store.Insert(ctx, "users", domain.Values{
		"email":         email,
		"password_hash": hash,
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("register %q: %w", email, ErrEmailTaken)
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("Registration insert failed")
		return nil, fmt.Errorf("register user: %w", ErrInternal)
	}

	user := domain.UserFromRow(row).Public()
	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	return &user, nil
}

// GetUserByID returns the public view of the user with the given id.
func (s *AccountService) GetUserByID(ctx context.Context, id string) (*domain.PublicUser, error) {
	ctx, span := middleware.StartSpan(ctx, "account.get_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	user, err := s.findUser(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateUser applies a partial {email?, password?} patch. A present
// password is re-hashed before persisting. A patch with no recognized
// fields fails validation.
func (s *AccountService) UpdateUser(ctx context.Context, id string, patch domain.UpdateUserRequest) (*domain.PublicUser, error) {
	ctx, span := middleware.StartSpan(ctx, "account.update_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	if _, err := s.findUser(ctx, id); err != nil {
		span.RecordError(err)
		return nil, err
	}

	values := domain.Values{}
	if patch.Email != nil {
		if *patch.Email == "" {
			return nil, fmt.Errorf("email cannot be empty: %w", ErrValidation)
		}
		values["email"] = *patch.Email
	}
	if patch.Password != nil {
		hash, err := s.creds.HashPassword(*patch.Password)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		values["password_hash"] = hash
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("nothing to update: %w", ErrValidation)
	}

	row, err := s.store.Update(ctx, "users", values, domain.Filter{"id": id})
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, domain.ErrConflict):
			return nil, fmt.Errorf("update user %q: %w", id, ErrEmailTaken)
		case errors.Is(err, domain.ErrNoRows):
			return nil, fmt.Errorf("update user %q: %w", id, ErrUserNotFound)
		default:
			zerolog.Ctx(ctx).Error().Err(err).Msg("User update failed")
			return nil, fmt.Errorf("update user: %w", ErrInternal)
		}
	}

	pub := domain.UserFromRow(row).Public()
	return &pub, nil
}

// DeleteUser removes the user. The user's tasks are removed by the
// store-level cascade.
func (s *AccountService) DeleteUser(ctx context.Context, id string) (*domain.DeleteResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "account.delete_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	if _, err := s.findUser(ctx, id); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if _, err := s.store.Delete(ctx, "users", domain.Filter{"id": id}); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("User delete failed")
		return nil, fmt.Errorf("delete user: %w", ErrInternal)
	}

	span.AddEvent("user.deleted")
	return &domain.DeleteResponse{Message: "user deleted"}, nil
}

// findUser loads the full user record (hash included) for internal use.
func (s *AccountService) findUser(ctx context.Context, id string) (*domain.User, error) {
	rows, err := s.store.Select(ctx, "users", domain.Filter{"id": id})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("User lookup failed")
		return nil, fmt.Errorf("find user: %w", ErrInternal)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("find user %q: %w", id, ErrUserNotFound)
	}
	user := domain.UserFromRow(rows[0])
	return &user, nil
}
