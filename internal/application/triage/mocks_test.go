package triage

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

type mockGeoUnitRepo struct {
	mock.Mock
}

func (m *mockGeoUnitRepo) ListUnits(ctx context.Context) ([]*geo.Unit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*geo.Unit), args.Error(1)
}

func (m *mockGeoUnitRepo) GetUnit(ctx context.Context, id common.ID) (*geo.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Unit), args.Error(1)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) GetCategory(ctx context.Context, name complaint.CategoryName) (*complaint.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complaint.Category), args.Error(1)
}

func (m *mockCategoryRepo) ListCategories(ctx context.Context) ([]*complaint.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*complaint.Category), args.Error(1)
}

type mockComplaintRepo struct {
	mock.Mock
}

func (m *mockComplaintRepo) GetComplaint(ctx context.Context, id common.ID) (*complaint.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complaint.Complaint), args.Error(1)
}

func (m *mockComplaintRepo) SaveComplaint(ctx context.Context, c *complaint.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockComplaintRepo) UpdateComplaint(ctx context.Context, c *complaint.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockComplaintRepo) FindNearby(ctx context.Context, q NearbyQuery) ([]*complaint.Complaint, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*complaint.Complaint), args.Error(1)
}

func (m *mockComplaintRepo) CountNearby(ctx context.Context, q NearbyQuery) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *mockComplaintRepo) EarliestNearby(ctx context.Context, q NearbyQuery) (time.Time, bool, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

func (m *mockComplaintRepo) LinkDuplicate(ctx context.Context, originalID, duplicateID common.ID) error {
	args := m.Called(ctx, originalID, duplicateID)
	return args.Error(0)
}

func (m *mockComplaintRepo) FindBreached(ctx context.Context, now time.Time, limit int) ([]*complaint.Complaint, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*complaint.Complaint), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, key string, event interface{}) error {
	args := m.Called(ctx, topic, key, event)
	return args.Error(0)
}
