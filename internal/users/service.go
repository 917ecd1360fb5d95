package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/learnlingo/learnlingo/internal/roles"
	"github.com/learnlingo/learnlingo/internal/shared"
)

// DefaultMaxRecords bounds a directory fetch when no ceiling is configured.
const DefaultMaxRecords = 5000

// MutationObserver records the outcome of admin mutations.
type MutationObserver interface {
	ObserveMutation(op, result string)
}

// ServiceOptions tunes the directory service.
type ServiceOptions struct {
	MaxRecords int
	Metrics    MutationObserver
	Now        func() time.Time
}

// Service loads the user directory and applies admin mutations.
type Service struct {
	repo       Repository
	validate   *validator.Validate
	tracer     trace.Tracer
	metrics    MutationObserver
	maxRecords int
	now        func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, opts ServiceOptions) *Service {
	if opts.MaxRecords <= 0 {
		opts.MaxRecords = DefaultMaxRecords
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:       repo,
		validate:   validator.New(),
		tracer:     otel.Tracer("github.com/learnlingo/learnlingo/internal/users"),
		metrics:    opts.Metrics,
		maxRecords: opts.MaxRecords,
		now:        opts.Now,
	}
}

// Load fetches every profile with its roles, newest first.
func (s *Service) Load(ctx context.Context) ([]User, error) {
	ctx, span := s.tracer.Start(ctx, "users.Load")
	defer span.End()

	records, err := s.repo.ListProfiles(ctx, s.maxRecords+1)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("load directory: %w", err)
	}
	if len(records) > s.maxRecords {
		err := fmt.Errorf("load directory: %w (limit %d)", ErrDirectoryTooLarge, s.maxRecords)
		recordSpanError(span, err)
		return nil, err
	}
	out := make([]User, 0, len(records))
	for _, rec := range records {
		out = append(out, Normalize(rec))
	}
	span.SetAttributes(attribute.Int("users.count", len(out)))
	return out, nil
}

// Get fetches a single directory entry.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (User, error) {
	rec, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return User{}, err
	}
	return Normalize(rec), nil
}

// ChangeRole makes role the single role of the user.
func (s *Service) ChangeRole(ctx context.Context, userID uuid.UUID, role roles.Role) error {
	return s.mutate(ctx, "change_role", userID, func(ctx context.Context) error {
		if !role.Valid() {
			return fmt.Errorf("change role: %w", shared.ErrValidation)
		}
		return s.repo.SetRole(ctx, userID, role)
	})
}

// SetActive sets the activation flag of the user.
func (s *Service) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	return s.mutate(ctx, "set_active", userID, func(ctx context.Context) error {
		return s.repo.SetActive(ctx, userID, active)
	})
}

// ToggleStatus inverts the given current status and returns the new one.
func (s *Service) ToggleStatus(ctx context.Context, userID uuid.UUID, current bool) (bool, error) {
	next := !current
	if err := s.SetActive(ctx, userID, next); err != nil {
		return current, err
	}
	return next, nil
}

// UpdateProfile writes the edited profile fields and, when the submitted role
// differs from the original, the new role. Both writes commit together.
func (s *Service) UpdateProfile(ctx context.Context, original User, update ProfileUpdate) error {
	return s.mutate(ctx, "update_profile", original.UserID, func(ctx context.Context) error {
		if err := s.validate.Struct(update); err != nil {
			return fmt.Errorf("update profile: %w: %w", shared.ErrValidation, err)
		}
		role, err := roles.Parse(update.Role)
		if err != nil {
			return fmt.Errorf("update profile: %w: %w", shared.ErrValidation, err)
		}
		fields := ProfileFields{DisplayName: update.DisplayName, Bio: update.Bio, IsActive: update.IsActive}
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if err := tx.UpdateProfile(ctx, original.UserID, fields); err != nil {
				return err
			}
			if role == original.Role {
				return nil
			}
			return tx.SetRole(ctx, original.UserID, role)
		})
	})
}

// TouchLastLogin stamps the sign-in time of the user.
func (s *Service) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	return s.repo.TouchLastLogin(ctx, userID, s.now())
}

func (s *Service) mutate(ctx context.Context, op string, userID uuid.UUID, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "users."+op, trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	err := fn(ctx)
	if s.metrics != nil {
		s.metrics.ObserveMutation(op, mutationResult(err))
	}
	if err != nil {
		recordSpanError(span, err)
	}
	return err
}

func mutationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, shared.ErrNotFound):
		return "not_found"
	case errors.Is(err, shared.ErrForbidden):
		return "forbidden"
	case errors.Is(err, shared.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
