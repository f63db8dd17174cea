package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"sehhaty/internal/auth"
	"sehhaty/internal/config"
	"sehhaty/internal/models"
	"sehhaty/internal/repository"
	"sehhaty/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAccountRepository is a mock of the repository.AccountRepository interface.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.Account, error) {
	args := m.Called(ctx, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockAccountRepository) Search(ctx context.Context, query string) ([]models.Account, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockAccountRepository) CountCitizens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) CountRegisteredSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockRequestRepository is a mock of the repository.RequestRepository interface.
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepository) GetForAccount(ctx context.Context, id, accountID uint) (*models.Request, error) {
	args := m.Called(ctx, id, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepository) Create(ctx context.Context, request *models.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) Update(ctx context.Context, request *models.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) ListForAccount(ctx context.Context, accountID uint) ([]models.Request, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *MockRequestRepository) ListAll(ctx context.Context, filter repository.RequestFilter) ([]models.Request, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *MockRequestRepository) Statistics(ctx context.Context) (*repository.RequestStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RequestStatistics), args.Error(1)
}

// MockAttachmentRepository is a mock of the repository.AttachmentRepository interface.
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) GetByID(ctx context.Context, id uint) (*models.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) CreateWithRequestUpdate(ctx context.Context, attachment *models.Attachment, request *models.Request) error {
	args := m.Called(ctx, attachment, request)
	return args.Error(0)
}

func (m *MockAttachmentRepository) Update(ctx context.Context, attachment *models.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttachmentRepository) ListActiveForAccount(ctx context.Context, accountID uint) ([]models.Attachment, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]models.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListAll(ctx context.Context) ([]models.Attachment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListForAccount(ctx context.Context, accountID uint) ([]models.Attachment, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]models.Attachment), args.Error(1)
}

// fakeStore is an in-memory storage.Store.
type fakeStore struct {
	files map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (f *fakeStore) Save(name string, content []byte) (string, error) {
	f.files[name] = content
	return "/tmp/uploads/" + name, nil
}

func (f *fakeStore) Remove(name string) error {
	delete(f.files, name)
	return nil
}

func (f *fakeStore) Exists(name string) bool {
	_, ok := f.files[name]
	return ok
}

func (f *fakeStore) Path(name string) string {
	return "/tmp/uploads/" + name
}

type testDeps struct {
	accountRepo    *MockAccountRepository
	requestRepo    *MockRequestRepository
	attachmentRepo *MockAttachmentRepository
	store          *fakeStore
	sessions       auth.SessionStore
	server         *Server
	app            *fiber.App
}

// newTestApp wires a Server with mocked repositories, an in-memory session
// store, and all routes registered. Heavy middleware (metrics, tracing,
// limiter) is left out.
func newTestApp(t *testing.T) *testDeps {
	t.Setenv("APP_ENV", "test")

	accountRepo := new(MockAccountRepository)
	requestRepo := new(MockRequestRepository)
	attachmentRepo := new(MockAttachmentRepository)
	store := newFakeStore()
	sessions := auth.NewMemorySessionStore(time.Hour)
	cfg := &config.Config{Env: "test", MaxUploadMB: 16, SessionTTLDays: 7}

	s := &Server{
		config:            cfg,
		sessions:          sessions,
		store:             store,
		accountRepo:       accountRepo,
		accountService:    service.NewAccountService(accountRepo, attachmentRepo, store),
		requestService:    service.NewRequestService(requestRepo, accountRepo),
		attachmentService: service.NewAttachmentService(attachmentRepo, requestRepo, store, cfg.MaxUploadBytes()),
	}

	app := fiber.New()
	s.SetupRoutes(app)

	return &testDeps{
		accountRepo:    accountRepo,
		requestRepo:    requestRepo,
		attachmentRepo: attachmentRepo,
		store:          store,
		sessions:       sessions,
		server:         s,
		app:            app,
	}
}

// loginAs creates a session for the account and returns the cookie to attach
// to requests. The account repo is primed to resolve the session.
func (d *testDeps) loginAs(t *testing.T, account *models.Account) *http.Cookie {
	token, err := d.sessions.Create(context.Background(), account.ID)
	require.NoError(t, err)
	d.accountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	return &http.Cookie{Name: SessionCookie, Value: token}
}

func adminAccount() *models.Account {
	return &models.Account{ID: 1, NationalID: models.AdminNationalID, FullName: "System Administrator", Status: models.AccountStatusActive}
}

func citizenAccount(id uint) *models.Account {
	return &models.Account{ID: id, NationalID: "1234567890", FullName: "Khalid Alotaibi", Status: models.AccountStatusActive}
}
