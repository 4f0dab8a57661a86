// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the campgrounds application.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"campgrounds/internal/domain"
)

// Common test errors
var (
	ErrMockNotImplemented = errors.New("mock function not implemented")
	ErrMockNotFound       = errors.New("mock: not found")
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	mu sync.RWMutex

	// Function overrides - set these to customize behavior
	CreateFunc        func(ctx context.Context, user *domain.User) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*domain.User, error)

	// In-memory storage for simple tests
	Users map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository with initialized maps
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Users == nil {
		m.Users = make(map[string]*domain.User)
	}

	// Check for duplicates
	for _, u := range m.Users {
		if u.Username == user.Username {
			return domain.ErrUsernameExists
		}
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}

	if user.ID == "" {
		user.ID = "user-" + user.Username
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.Users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	mu sync.RWMutex

	// Function overrides
	CreateFunc        func(ctx context.Context, session *domain.Session) error
	GetByTokenFunc    func(ctx context.Context, token string) (*domain.Session, error)
	UpdateDataFunc    func(ctx context.Context, token string, data map[string]string) error
	TouchFunc         func(ctx context.Context, token string, olderThan time.Time) (bool, error)
	DeleteFunc        func(ctx context.Context, token string) error
	DeleteExpiredFunc func(ctx context.Context) (int64, error)

	// In-memory storage keyed by token
	Sessions map[string]*domain.Session

	// Write counters for asserting coalescing behavior
	UpdateDataCalls int
	TouchWrites     int
}

// NewMockSessionRepository creates a new MockSessionRepository with initialized maps
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		Sessions: make(map[string]*domain.Session),
	}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Sessions == nil {
		m.Sessions = make(map[string]*domain.Session)
	}

	if session.ID == "" {
		session.ID = fmt.Sprintf("session-%d", len(m.Sessions)+1)
	}
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}
	m.Sessions[session.Token] = session
	return nil
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.GetByTokenFunc != nil {
		return m.GetByTokenFunc(ctx, token)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.Sessions[token]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionRepository) UpdateData(ctx context.Context, token string, data map[string]string) error {
	if m.UpdateDataFunc != nil {
		return m.UpdateDataFunc(ctx, token, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.Sessions[token]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Data = data
	session.UpdatedAt = time.Now()
	m.UpdateDataCalls++
	return nil
}

func (m *MockSessionRepository) Touch(ctx context.Context, token string, olderThan time.Time) (bool, error) {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, token, olderThan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.Sessions[token]
	if !ok || !session.UpdatedAt.Before(olderThan) {
		return false, nil
	}
	session.UpdatedAt = time.Now()
	m.TouchWrites++
	return true, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Sessions, token)
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	now := time.Now()
	for token, session := range m.Sessions {
		if now.After(session.ExpiresAt) {
			delete(m.Sessions, token)
			count++
		}
	}
	return count, nil
}

// MockCampgroundRepository implements domain.CampgroundRepository for testing
type MockCampgroundRepository struct {
	mu sync.RWMutex

	// Function overrides
	CreateFunc    func(ctx context.Context, campground *domain.Campground) error
	GetByIDFunc   func(ctx context.Context, id string) (*domain.Campground, error)
	ListFunc      func(ctx context.Context) ([]*domain.Campground, error)
	UpdateFunc    func(ctx context.Context, campground *domain.Campground) error
	DeleteFunc    func(ctx context.Context, id string) (int64, error)
	DeleteAllFunc func(ctx context.Context) error

	// In-memory storage; order preserves insertion for deterministic List
	Campgrounds map[string]*domain.Campground
	order       []string

	// Reviews, when set, backs cascade deletes the way the real
	// repository removes a campground's reviews in the same transaction.
	Reviews *MockReviewRepository
}

// NewMockCampgroundRepository creates a new MockCampgroundRepository with initialized maps
func NewMockCampgroundRepository() *MockCampgroundRepository {
	return &MockCampgroundRepository{
		Campgrounds: make(map[string]*domain.Campground),
	}
}

func (m *MockCampgroundRepository) Create(ctx context.Context, campground *domain.Campground) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, campground)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Campgrounds == nil {
		m.Campgrounds = make(map[string]*domain.Campground)
	}

	if campground.ID == "" {
		campground.ID = fmt.Sprintf("campground-%d", len(m.Campgrounds)+1)
	}
	now := time.Now()
	if campground.CreatedAt.IsZero() {
		campground.CreatedAt = now
	}
	campground.UpdatedAt = now
	m.Campgrounds[campground.ID] = campground
	m.order = append(m.order, campground.ID)
	return nil
}

func (m *MockCampgroundRepository) GetByID(ctx context.Context, id string) (*domain.Campground, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if campground, ok := m.Campgrounds[id]; ok {
		return campground, nil
	}
	return nil, domain.ErrCampgroundNotFound
}

func (m *MockCampgroundRepository) List(ctx context.Context) ([]*domain.Campground, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	campgrounds := make([]*domain.Campground, 0, len(m.order))
	for _, id := range m.order {
		if campground, ok := m.Campgrounds[id]; ok {
			campgrounds = append(campgrounds, campground)
		}
	}
	return campgrounds, nil
}

func (m *MockCampgroundRepository) Update(ctx context.Context, campground *domain.Campground) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, campground)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Campgrounds[campground.ID]
	if !ok {
		return domain.ErrCampgroundNotFound
	}

	// The author link never changes on update
	campground.AuthorID = existing.AuthorID
	campground.CreatedAt = existing.CreatedAt
	campground.UpdatedAt = time.Now()
	m.Campgrounds[campground.ID] = campground
	return nil
}

func (m *MockCampgroundRepository) Delete(ctx context.Context, id string) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Campgrounds[id]; !ok {
		return 0, domain.ErrCampgroundNotFound
	}
	delete(m.Campgrounds, id)

	var removed int64
	if m.Reviews != nil {
		removed = m.Reviews.deleteByCampground(id)
	}
	return removed, nil
}

func (m *MockCampgroundRepository) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Campgrounds = make(map[string]*domain.Campground)
	m.order = nil
	return nil
}

// MockReviewRepository implements domain.ReviewRepository for testing
type MockReviewRepository struct {
	mu sync.RWMutex

	// Function overrides
	CreateFunc            func(ctx context.Context, review *domain.Review) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Review, error)
	ListByCampgroundFunc  func(ctx context.Context, campgroundID string) ([]*domain.Review, error)
	DeleteFunc            func(ctx context.Context, id string) error
	CountByCampgroundFunc func(ctx context.Context, campgroundID string) (int64, error)

	// In-memory storage; order preserves insertion
	Reviews map[string]*domain.Review
	order   []string
}

// NewMockReviewRepository creates a new MockReviewRepository with initialized maps
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		Reviews: make(map[string]*domain.Review),
	}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, review)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Reviews == nil {
		m.Reviews = make(map[string]*domain.Review)
	}

	if review.ID == "" {
		review.ID = fmt.Sprintf("review-%d", len(m.Reviews)+1)
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	m.Reviews[review.ID] = review
	m.order = append(m.order, review.ID)
	return nil
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if review, ok := m.Reviews[id]; ok {
		return review, nil
	}
	return nil, domain.ErrReviewNotFound
}

func (m *MockReviewRepository) ListByCampground(ctx context.Context, campgroundID string) ([]*domain.Review, error) {
	if m.ListByCampgroundFunc != nil {
		return m.ListByCampgroundFunc(ctx, campgroundID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var reviews []*domain.Review
	for _, id := range m.order {
		if review, ok := m.Reviews[id]; ok && review.CampgroundID == campgroundID {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(m.Reviews, id)
	return nil
}

func (m *MockReviewRepository) CountByCampground(ctx context.Context, campgroundID string) (int64, error) {
	if m.CountByCampgroundFunc != nil {
		return m.CountByCampgroundFunc(ctx, campgroundID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, review := range m.Reviews {
		if review.CampgroundID == campgroundID {
			count++
		}
	}
	return count, nil
}

func (m *MockReviewRepository) deleteByCampground(campgroundID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for id, review := range m.Reviews {
		if review.CampgroundID == campgroundID {
			delete(m.Reviews, id)
			count++
		}
	}
	return count
}
