package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/dashgate/internal/auth"
	"github.com/BradenHooton/dashgate/internal/models"
)

// MockUserRepository implements UserRepository and AdminUserRepository for testing
type MockUserRepository struct {
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockProfileRepository implements the profile storage interfaces for testing
type MockProfileRepository struct {
	GetByUserIDFunc     func(ctx context.Context, userID string) (*models.Profile, error)
	GetOrCreateFunc     func(ctx context.Context, p *models.Profile) (*models.Profile, error)
	UpdateFunc          func(ctx context.Context, p *models.Profile) (*models.Profile, error)
	RecordLoginFunc     func(ctx context.Context, userID string) error
	ListFunc            func(ctx context.Context, page models.Page) ([]*models.Profile, int64, error)
	ListAllFunc         func(ctx context.Context) ([]*models.Profile, error)
	SearchFunc          func(ctx context.Context, term string, limit int, activeOnly bool) ([]*models.Profile, error)
	DeleteFunc          func(ctx context.Context, userID string) error
	CountTotalFunc      func(ctx context.Context) (int64, error)
	CountByStatusFunc   func(ctx context.Context, status models.Status) (int64, error)
	CountByRoleFunc     func(ctx context.Context, role models.Role) (int64, error)
	CountNewSinceFunc   func(ctx context.Context, since time.Time) (int64, error)
	DailyStatisticsFunc func(ctx context.Context, days int) ([]models.UserStatistics, error)
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

func (m *MockProfileRepository) GetOrCreate(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, p)
	}
	return p, nil
}

// Update echoes p back by default
func (m *MockProfileRepository) Update(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return p, nil
}

func (m *MockProfileRepository) RecordLogin(ctx context.Context, userID string) error {
	if m.RecordLoginFunc != nil {
		return m.RecordLoginFunc(ctx, userID)
	}
	return nil
}

func (m *MockProfileRepository) List(ctx context.Context, page models.Page) ([]*models.Profile, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page)
	}
	return []*models.Profile{}, 0, nil
}

func (m *MockProfileRepository) ListAll(ctx context.Context) ([]*models.Profile, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []*models.Profile{}, nil
}

func (m *MockProfileRepository) Search(ctx context.Context, term string, limit int, activeOnly bool) ([]*models.Profile, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, term, limit, activeOnly)
	}
	return []*models.Profile{}, nil
}

func (m *MockProfileRepository) Delete(ctx context.Context, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID)
	}
	return nil
}

func (m *MockProfileRepository) CountTotal(ctx context.Context) (int64, error) {
	if m.CountTotalFunc != nil {
		return m.CountTotalFunc(ctx)
	}
	return 0, nil
}

func (m *MockProfileRepository) CountByStatus(ctx context.Context, status models.Status) (int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, status)
	}
	return 0, nil
}

func (m *MockProfileRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	if m.CountByRoleFunc != nil {
		return m.CountByRoleFunc(ctx, role)
	}
	return 0, nil
}

func (m *MockProfileRepository) CountNewSince(ctx context.Context, since time.Time) (int64, error) {
	if m.CountNewSinceFunc != nil {
		return m.CountNewSinceFunc(ctx, since)
	}
	return 0, nil
}

func (m *MockProfileRepository) DailyStatistics(ctx context.Context, days int) ([]models.UserStatistics, error) {
	if m.DailyStatisticsFunc != nil {
		return m.DailyStatisticsFunc(ctx, days)
	}
	return []models.UserStatistics{}, nil
}

// MockProvisioner implements UserProvisioner for testing
type MockProvisioner struct {
	CreateUserWithProfileFunc func(ctx context.Context, user *models.User, profile *models.Profile) (*models.Profile, error)
}

func (m *MockProvisioner) CreateUserWithProfile(ctx context.Context, user *models.User, profile *models.Profile) (*models.Profile, error) {
	if m.CreateUserWithProfileFunc != nil {
		return m.CreateUserWithProfileFunc(ctx, user, profile)
	}
	return nil, models.ErrInternalServer
}

// MockAdminLogRepository records created entries
type MockAdminLogRepository struct {
	mu      sync.Mutex
	Entries []*models.AdminLog

	CreateErr        error
	ListFunc         func(ctx context.Context, page models.Page) ([]*models.AdminLog, int64, error)
	ListByTargetFunc func(ctx context.Context, userID string, limit int) ([]*models.AdminLog, error)
}

func (m *MockAdminLogRepository) Create(_ context.Context, log *models.AdminLog) (*models.AdminLog, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, log)
	return log, nil
}

func (m *MockAdminLogRepository) List(ctx context.Context, page models.Page) ([]*models.AdminLog, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page)
	}
	return []*models.AdminLog{}, 0, nil
}

func (m *MockAdminLogRepository) ListByTarget(ctx context.Context, userID string, limit int) ([]*models.AdminLog, error) {
	if m.ListByTargetFunc != nil {
		return m.ListByTargetFunc(ctx, userID, limit)
	}
	return []*models.AdminLog{}, nil
}

// Actions returns the recorded action names in order
func (m *MockAdminLogRepository) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Action
	}
	return out
}

// MockNotifier records notices and can be told to fail
type MockNotifier struct {
	Err     error
	Created []string
	Suspend []string
	Banned  []string
}

func (m *MockNotifier) AccountCreated(_ context.Context, email, _ string) error {
	m.Created = append(m.Created, email)
	return m.Err
}

func (m *MockNotifier) AccountSuspended(_ context.Context, email string, _ time.Time, _ string) error {
	m.Suspend = append(m.Suspend, email)
	return m.Err
}

func (m *MockNotifier) AccountBanned(_ context.Context, email, _ string) error {
	m.Banned = append(m.Banned, email)
	return m.Err
}

// MockInvalidator records invalidated user IDs
type MockInvalidator struct {
	mu  sync.Mutex
	IDs []string
}

func (m *MockInvalidator) Invalidate(_ context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IDs = append(m.IDs, userID)
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	IssuePairFunc     func(ctx context.Context, userID, email string) (*auth.TokenPair, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*models.TokenClaims, error)
}

func (m *MockTokenIssuer) IssuePair(ctx context.Context, userID, email string) (*auth.TokenPair, error) {
	if m.IssuePairFunc != nil {
		return m.IssuePairFunc(ctx, userID, email)
	}
	return &auth.TokenPair{
		AccessToken:  "access-" + userID,
		RefreshToken: "refresh-" + userID,
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}, nil
}

func (m *MockTokenIssuer) ValidateToken(ctx context.Context, token string) (*models.TokenClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, models.ErrUnauthorized
}

// MockProfileEnsurer implements ProfileEnsurer for testing
type MockProfileEnsurer struct {
	GetOrCreateFunc func(ctx context.Context, userID, email string) (*models.Profile, error)
}

func (m *MockProfileEnsurer) GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, userID, email)
	}
	return NewTestProfile(userID, email, models.RoleUser, models.StatusActive), nil
}

// MockAvatarStore keeps objects in memory
type MockAvatarStore struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte
	PutErrs []error
	Deleted []string
}

func NewMockAvatarStore() *MockAvatarStore {
	return &MockAvatarStore{BaseURL: "https://cdn.test", Objects: make(map[string][]byte)}
}

// Put fails with the queued errors first, then succeeds
func (m *MockAvatarStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.PutErrs) > 0 {
		err := m.PutErrs[0]
		m.PutErrs = m.PutErrs[1:]
		return "", err
	}
	m.Objects[key] = data
	return m.BaseURL + "/" + key, nil
}

func (m *MockAvatarStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

func (m *MockAvatarStore) KeyFromURL(url string) (string, bool) {
	prefix := m.BaseURL + "/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return "", false
	}
	return url[len(prefix):], true
}

// NewTestProfile creates a profile for testing
func NewTestProfile(userID, email string, role models.Role, status models.Status) *models.Profile {
	now := time.Now()
	return &models.Profile{
		ID:                "profile-" + userID,
		UserID:            userID,
		Email:             email,
		PreferredLanguage: models.LanguageEnglish,
		Role:              role,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// NewTestUser creates a user for testing
func NewTestUser(id, email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:             id,
		Email:          email,
		TokenKey:       "test-token-key",
		EmailConfirmed: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
