package applications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/users"
	"github.com/user/jobtrack-go/validation"
)

// Service builds owner-bound Scopes over a Repository.
type Service struct {
	repo     Repository
	validate *validation.Validator
	now      func() time.Time
}

// NewService creates a Service.
func NewService(repo Repository, validate *validation.Validator) *Service {
	return &Service{repo: repo, validate: validate, now: time.Now}
}

// For returns the Scope of owner's records.
func (s *Service) For(owner *users.Account) *Scope {
	return &Scope{svc: s, ownerID: owner.ID}
}

// Scope is the store as seen by one owner. Listing and reading never reveal other owners'
// records (they look absent); changing another owner's record is Forbidden.
type Scope struct {
	svc     *Service
	ownerID uuid.UUID
}

// List returns the owner's records ordered by applied_at then id.
func (sc *Scope) List(ctx context.Context, page Page) ([]Application, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return sc.svc.repo.List(ctx, sc.ownerID, page)
}

// Get returns one of the owner's records.
func (sc *Scope) Get(ctx context.Context, id uuid.UUID) (*Application, error) {
	return sc.svc.repo.Get(ctx, sc.ownerID, id)
}

// Create stores a new record owned by the scope's owner, applied now.
func (sc *Scope) Create(ctx context.Context, req CreateRequest) (*Application, error) {
	if err := sc.svc.validate.Struct(req); err != nil {
		return nil, err
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	app := &Application{
		ID:        uuid.New(),
		Company:   req.Company,
		Status:    status,
		URL:       req.URL,
		AppliedAt: sc.svc.timestamp(),
		OwnerID:   sc.ownerID,
	}
	if err := sc.svc.repo.Insert(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Update applies the fields present in req. updated_at is always moved forward.
func (sc *Scope) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Application, error) {
	if err := sc.svc.validate.Struct(req); err != nil {
		return nil, err
	}
	var status Status
	if req.Status != nil {
		parsed, err := ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	if req.URL.Set && req.URL.Value != nil {
		if err := validateURL(*req.URL.Value); err != nil {
			return nil, err
		}
	}

	return sc.svc.repo.Update(ctx, id, func(app *Application) error {
		if err := sc.checkOwner(app); err != nil {
			return err
		}
		if req.Company != nil {
			app.Company = *req.Company
		}
		if req.Status != nil {
			app.Status = status
		}
		if req.URL.Set {
			app.URL = req.URL.Value
		}
		now := sc.svc.nextUpdatedAt(app)
		app.UpdatedAt = &now
		return nil
	})
}

// Delete removes one of the owner's records immediately.
func (sc *Scope) Delete(ctx context.Context, id uuid.UUID) error {
	return sc.svc.repo.Delete(ctx, id, sc.checkOwner)
}

func (sc *Scope) checkOwner(app *Application) error {
	if app.OwnerID != sc.ownerID {
		return apperror.NewForbiddenError("Not enough permissions", nil)
	}
	return nil
}

// timestamp is now at the precision both databases store.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// nextUpdatedAt is now, or just after the previous modification if the clock has not
// moved past it.
func (s *Service) nextUpdatedAt(app *Application) time.Time {
	now := s.timestamp()
	prev := app.AppliedAt
	if app.UpdatedAt != nil && app.UpdatedAt.After(prev) {
		prev = *app.UpdatedAt
	}
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

func validateURL(u string) error {
	if len(u) > 255 {
		return apperror.NewInvalidInputError("url must be at most 255 characters", nil)
	}
	if !validation.IsAbsoluteURL(u) {
		return apperror.NewInvalidInputError("url must be an absolute http(s) URL", nil)
	}
	return nil
}
