package services_test

import (
	"context"
	"time"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

// In-memory repositories shared by the service tests. Each stores clones so
// test assertions never observe aliased pointers.

type mockTrackerRepo struct {
	store         map[string]*domain.Tracker
	simulateError error
}

func newMockTrackerRepo() *mockTrackerRepo {
	return &mockTrackerRepo{store: make(map[string]*domain.Tracker)}
}

func (m *mockTrackerRepo) Create(ctx context.Context, tracker *domain.Tracker) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *tracker
	m.store[tracker.ID] = &clone
	return nil
}

func (m *mockTrackerRepo) GetByID(ctx context.Context, id string) (*domain.Tracker, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	t, ok := m.store[id]
	if !ok || t.DeletedAt != nil {
		return nil, domain.ErrTrackerNotFound
	}
	clone := *t
	return &clone, nil
}

func (m *mockTrackerRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Tracker, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.Tracker
	for _, t := range m.store {
		if t.UserID == userID && t.DeletedAt == nil {
			clone := *t
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *mockTrackerRepo) ListByUserIDAndKind(ctx context.Context, userID, kind string) ([]*domain.Tracker, error) {
	all, err := m.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var list []*domain.Tracker
	for _, t := range all {
		if t.Kind == kind {
			list = append(list, t)
		}
	}
	return list, nil
}

func (m *mockTrackerRepo) Update(ctx context.Context, tracker *domain.Tracker) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[tracker.ID]; !ok {
		return domain.ErrTrackerNotFound
	}
	clone := *tracker
	m.store[tracker.ID] = &clone
	return nil
}

func (m *mockTrackerRepo) Delete(ctx context.Context, id string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	t, ok := m.store[id]
	if !ok {
		return domain.ErrTrackerNotFound
	}
	now := time.Now().UTC()
	t.DeletedAt = &now
	t.UpdatedAt = now
	return nil
}

func (m *mockTrackerRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Tracker, error) {
	var changes []*domain.Tracker
	for _, t := range m.store {
		if t.UserID == userID && t.UpdatedAt.After(since) {
			clone := *t
			changes = append(changes, &clone)
		}
	}
	return changes, nil
}

func (m *mockTrackerRepo) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	t, ok := m.store[id]
	if !ok {
		return domain.ErrTrackerNotFound
	}
	t.CurrentStreak = current
	t.LongestStreak = longest
	t.UpdatedAt = time.Now().UTC()
	return nil
}

type mockRecordRepo struct {
	store         map[string]*domain.TrackerRecord
	simulateError error
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{store: make(map[string]*domain.TrackerRecord)}
}

func (m *mockRecordRepo) Create(ctx context.Context, record *domain.TrackerRecord) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *record
	m.store[record.ID] = &clone
	return nil
}

func (m *mockRecordRepo) Upsert(ctx context.Context, record *domain.TrackerRecord) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for id, existing := range m.store {
		if existing.TrackerID == record.TrackerID && existing.Day == record.Day && existing.DeletedAt == nil {
			clone := *record
			clone.ID = existing.ID
			clone.Version = existing.Version + 1
			clone.CreatedAt = existing.CreatedAt
			m.store[id] = &clone
			*record = clone
			return nil
		}
	}
	clone := *record
	m.store[record.ID] = &clone
	return nil
}

func (m *mockRecordRepo) Update(ctx context.Context, record *domain.TrackerRecord) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[record.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	clone := *record
	m.store[record.ID] = &clone
	return nil
}

func (m *mockRecordRepo) Delete(ctx context.Context, id string, userID string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	r, ok := m.store[id]
	if !ok || r.UserID != userID {
		return domain.ErrRecordNotFound
	}
	now := time.Now().UTC()
	r.DeletedAt = &now
	r.UpdatedAt = now
	return nil
}

func (m *mockRecordRepo) GetByID(ctx context.Context, id string) (*domain.TrackerRecord, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	r, ok := m.store[id]
	if !ok || r.DeletedAt != nil {
		return nil, domain.ErrRecordNotFound
	}
	clone := *r
	return &clone, nil
}

func (m *mockRecordRepo) ListByTrackerID(ctx context.Context, trackerID string) ([]*domain.TrackerRecord, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.TrackerRecord
	for _, r := range m.store {
		if r.TrackerID == trackerID && r.DeletedAt == nil {
			clone := *r
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *mockRecordRepo) ListByTrackerIDAndDayRange(ctx context.Context, trackerID string, from, to domain.DayKey) ([]*domain.TrackerRecord, error) {
	all, err := m.ListByTrackerID(ctx, trackerID)
	if err != nil {
		return nil, err
	}
	var list []*domain.TrackerRecord
	for _, r := range all {
		if !r.Day.Before(from) && !to.Before(r.Day) {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockRecordRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.TrackerRecord, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.TrackerRecord
	for _, r := range m.store {
		if r.UserID == userID && r.DeletedAt == nil {
			clone := *r
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *mockRecordRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.TrackerRecord, error) {
	var changes []*domain.TrackerRecord
	for _, r := range m.store {
		if r.UserID == userID && r.UpdatedAt.After(since) {
			clone := *r
			changes = append(changes, &clone)
		}
	}
	return changes, nil
}

type mockUserRepo struct {
	store         map[string]*domain.User
	simulateError error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{store: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for _, u := range m.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *user
	m.store[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	for _, u := range m.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type mockTimeBlockRepo struct {
	store         map[string]*domain.TimeBlock
	simulateError error
}

func newMockTimeBlockRepo() *mockTimeBlockRepo {
	return &mockTimeBlockRepo{store: make(map[string]*domain.TimeBlock)}
}

func (m *mockTimeBlockRepo) Create(ctx context.Context, block *domain.TimeBlock) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *block
	m.store[block.ID] = &clone
	return nil
}

func (m *mockTimeBlockRepo) GetByID(ctx context.Context, id string) (*domain.TimeBlock, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	b, ok := m.store[id]
	if !ok {
		return nil, domain.ErrTimeBlockNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *mockTimeBlockRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.TimeBlock, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.TimeBlock
	for _, b := range m.store {
		if b.UserID == userID {
			clone := *b
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *mockTimeBlockRepo) Update(ctx context.Context, block *domain.TimeBlock) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[block.ID]; !ok {
		return domain.ErrTimeBlockNotFound
	}
	clone := *block
	m.store[block.ID] = &clone
	return nil
}

func (m *mockTimeBlockRepo) Delete(ctx context.Context, id string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[id]; !ok {
		return domain.ErrTimeBlockNotFound
	}
	delete(m.store, id)
	return nil
}
