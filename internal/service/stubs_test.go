package service

import (
	"context"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/repository"
)

// Stub repositories. A nil fn returns zero values.

type userRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getWithDetailsFn func(context.Context, uint) (*models.User, error)
	updateFieldsFn   func(context.Context, uint, map[string]any) error
	searchFn         func(context.Context, repository.SearchParams) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn == nil {
		return &models.User{ID: id}, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetWithDetails(ctx context.Context, id uint) (*models.User, error) {
	if s.getWithDetailsFn == nil {
		return &models.User{ID: id}, nil
	}
	return s.getWithDetailsFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(context.Context, string) (*models.User, error) { return nil, nil }
func (s *userRepoStub) Create(context.Context, *models.User) error               { return nil }
func (s *userRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if s.updateFieldsFn == nil {
		return nil
	}
	return s.updateFieldsFn(ctx, id, fields)
}
func (s *userRepoStub) SetAdmin(context.Context, uint, bool) error             { return nil }
func (s *userRepoStub) TouchLastActive(context.Context, uint, time.Time) error { return nil }
func (s *userRepoStub) List(context.Context, int, int) ([]models.User, error)  { return nil, nil }
func (s *userRepoStub) ListAdmins(context.Context) ([]models.User, error)      { return nil, nil }
func (s *userRepoStub) Count(context.Context) (int64, error)                   { return 0, nil }
func (s *userRepoStub) CountPublic(context.Context) (int64, error)             { return 0, nil }
func (s *userRepoStub) Search(ctx context.Context, p repository.SearchParams) ([]models.User, error) {
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(ctx, p)
}

type skillRepoStub struct {
	skills map[uint]models.Skill
}

func (s *skillRepoStub) Create(context.Context, *models.Skill) error { return nil }
func (s *skillRepoStub) GetByID(_ context.Context, id uint) (*models.Skill, error) {
	skill, ok := s.skills[id]
	if !ok {
		return nil, models.NewNotFoundError("Skill", id)
	}
	return &skill, nil
}
func (s *skillRepoStub) ListByUser(context.Context, uint) ([]models.Skill, error) { return nil, nil }
func (s *skillRepoStub) ListAll(context.Context, int) ([]models.Skill, error)     { return nil, nil }
func (s *skillRepoStub) Update(context.Context, *models.Skill) error              { return nil }
func (s *skillRepoStub) Delete(context.Context, uint) error                       { return nil }
func (s *skillRepoStub) Count(context.Context) (int64, error)                     { return 0, nil }
func (s *skillRepoStub) CountOfferedPublic(context.Context) (int64, error)        { return 0, nil }

type swapRepoStub struct {
	createFn       func(context.Context, *models.SwapRequest) error
	getByIDFn      func(context.Context, uint) (*models.SwapRequest, error)
	getDetailFn    func(context.Context, uint) (*models.SwapRequest, error)
	updateStatusFn func(context.Context, uint, models.SwapStatus, models.SwapStatus, time.Time) (bool, error)
}

func (s *swapRepoStub) Create(ctx context.Context, req *models.SwapRequest) error {
	if s.createFn == nil {
		req.ID = 1
		return nil
	}
	return s.createFn(ctx, req)
}
func (s *swapRepoStub) GetByID(ctx context.Context, id uint) (*models.SwapRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *swapRepoStub) GetDetail(ctx context.Context, id uint) (*models.SwapRequest, error) {
	if s.getDetailFn == nil {
		return s.getByIDFn(ctx, id)
	}
	return s.getDetailFn(ctx, id)
}
func (s *swapRepoStub) ListForUser(context.Context, uint) ([]models.SwapRequest, error) {
	return nil, nil
}
func (s *swapRepoStub) ListAll(context.Context, int, int) ([]models.SwapRequest, error) {
	return nil, nil
}
func (s *swapRepoStub) UpdateStatusIfCurrent(ctx context.Context, id uint, from, to models.SwapStatus, at time.Time) (bool, error) {
	return s.updateStatusFn(ctx, id, from, to, at)
}
func (s *swapRepoStub) CountByStatus(context.Context, models.SwapStatus) (int64, error) {
	return 0, nil
}

func assertCode(t interface {
	Helper()
	Fatalf(string, ...any)
}, err error, code string) {
	t.Helper()
	if !models.IsCode(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}
