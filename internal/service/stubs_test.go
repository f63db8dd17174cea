package service

import (
	"context"
	"time"

	"sehhaty/internal/auth"
	"sehhaty/internal/models"
	"sehhaty/internal/repository"
)

// accountRepoStub is a stub for repository.AccountRepository.
type accountRepoStub struct {
	getByIDFn              func(context.Context, uint) (*models.Account, error)
	getByNationalIDFn      func(context.Context, string) (*models.Account, error)
	getByEmailFn           func(context.Context, string) (*models.Account, error)
	createFn               func(context.Context, *models.Account) error
	updateFn               func(context.Context, *models.Account) error
	deleteFn               func(context.Context, uint) error
	listFn                 func(context.Context) ([]models.Account, error)
	searchFn               func(context.Context, string) ([]models.Account, error)
	countCitizensFn        func(context.Context) (int64, error)
	countRegisteredSinceFn func(context.Context, time.Time) (int64, error)
}

func (s *accountRepoStub) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.getByIDFn(ctx, id)
}
func (s *accountRepoStub) GetByNationalID(ctx context.Context, nationalID string) (*models.Account, error) {
	return s.getByNationalIDFn(ctx, nationalID)
}
func (s *accountRepoStub) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *accountRepoStub) Create(ctx context.Context, account *models.Account) error {
	return s.createFn(ctx, account)
}
func (s *accountRepoStub) Update(ctx context.Context, account *models.Account) error {
	return s.updateFn(ctx, account)
}
func (s *accountRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *accountRepoStub) List(ctx context.Context) ([]models.Account, error) {
	return s.listFn(ctx)
}
func (s *accountRepoStub) Search(ctx context.Context, query string) ([]models.Account, error) {
	return s.searchFn(ctx, query)
}
func (s *accountRepoStub) CountCitizens(ctx context.Context) (int64, error) {
	return s.countCitizensFn(ctx)
}
func (s *accountRepoStub) CountRegisteredSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countRegisteredSinceFn(ctx, since)
}

func noopAccountRepo() *accountRepoStub {
	return &accountRepoStub{
		getByIDFn:              func(_ context.Context, _ uint) (*models.Account, error) { return &models.Account{}, nil },
		getByNationalIDFn:      func(_ context.Context, _ string) (*models.Account, error) { return nil, nil },
		getByEmailFn:           func(_ context.Context, _ string) (*models.Account, error) { return nil, nil },
		createFn:               func(_ context.Context, _ *models.Account) error { return nil },
		updateFn:               func(_ context.Context, _ *models.Account) error { return nil },
		deleteFn:               func(_ context.Context, _ uint) error { return nil },
		listFn:                 func(_ context.Context) ([]models.Account, error) { return nil, nil },
		searchFn:               func(_ context.Context, _ string) ([]models.Account, error) { return nil, nil },
		countCitizensFn:        func(_ context.Context) (int64, error) { return 0, nil },
		countRegisteredSinceFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// requestRepoStub is a stub for repository.RequestRepository.
type requestRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.Request, error)
	getForAccountFn  func(context.Context, uint, uint) (*models.Request, error)
	createFn         func(context.Context, *models.Request) error
	updateFn         func(context.Context, *models.Request) error
	listForAccountFn func(context.Context, uint) ([]models.Request, error)
	listAllFn        func(context.Context, repository.RequestFilter) ([]models.Request, error)
	statisticsFn     func(context.Context) (*repository.RequestStatistics, error)
}

func (s *requestRepoStub) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	return s.getByIDFn(ctx, id)
}
func (s *requestRepoStub) GetForAccount(ctx context.Context, id, accountID uint) (*models.Request, error) {
	return s.getForAccountFn(ctx, id, accountID)
}
func (s *requestRepoStub) Create(ctx context.Context, request *models.Request) error {
	return s.createFn(ctx, request)
}
func (s *requestRepoStub) Update(ctx context.Context, request *models.Request) error {
	return s.updateFn(ctx, request)
}
func (s *requestRepoStub) ListForAccount(ctx context.Context, accountID uint) ([]models.Request, error) {
	return s.listForAccountFn(ctx, accountID)
}
func (s *requestRepoStub) ListAll(ctx context.Context, filter repository.RequestFilter) ([]models.Request, error) {
	return s.listAllFn(ctx, filter)
}
func (s *requestRepoStub) Statistics(ctx context.Context) (*repository.RequestStatistics, error) {
	return s.statisticsFn(ctx)
}

func noopRequestRepo() *requestRepoStub {
	return &requestRepoStub{
		getByIDFn:        func(_ context.Context, _ uint) (*models.Request, error) { return &models.Request{}, nil },
		getForAccountFn:  func(_ context.Context, _, _ uint) (*models.Request, error) { return &models.Request{}, nil },
		createFn:         func(_ context.Context, _ *models.Request) error { return nil },
		updateFn:         func(_ context.Context, _ *models.Request) error { return nil },
		listForAccountFn: func(_ context.Context, _ uint) ([]models.Request, error) { return nil, nil },
		listAllFn: func(_ context.Context, _ repository.RequestFilter) ([]models.Request, error) {
			return nil, nil
		},
		statisticsFn: func(_ context.Context) (*repository.RequestStatistics, error) {
			return &repository.RequestStatistics{}, nil
		},
	}
}

// attachmentRepoStub is a stub for repository.AttachmentRepository.
type attachmentRepoStub struct {
	getByIDFn              func(context.Context, uint) (*models.Attachment, error)
	createWithReqUpdateFn  func(context.Context, *models.Attachment, *models.Request) error
	updateFn               func(context.Context, *models.Attachment) error
	deleteFn               func(context.Context, uint) error
	listActiveForAccountFn func(context.Context, uint) ([]models.Attachment, error)
	listAllFn              func(context.Context) ([]models.Attachment, error)
	listForAccountFn       func(context.Context, uint) ([]models.Attachment, error)
}

func (s *attachmentRepoStub) GetByID(ctx context.Context, id uint) (*models.Attachment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *attachmentRepoStub) CreateWithRequestUpdate(ctx context.Context, attachment *models.Attachment, request *models.Request) error {
	return s.createWithReqUpdateFn(ctx, attachment, request)
}
func (s *attachmentRepoStub) Update(ctx context.Context, attachment *models.Attachment) error {
	return s.updateFn(ctx, attachment)
}
func (s *attachmentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *attachmentRepoStub) ListActiveForAccount(ctx context.Context, accountID uint) ([]models.Attachment, error) {
	return s.listActiveForAccountFn(ctx, accountID)
}
func (s *attachmentRepoStub) ListAll(ctx context.Context) ([]models.Attachment, error) {
	return s.listAllFn(ctx)
}
func (s *attachmentRepoStub) ListForAccount(ctx context.Context, accountID uint) ([]models.Attachment, error) {
	return s.listForAccountFn(ctx, accountID)
}

func noopAttachmentRepo() *attachmentRepoStub {
	return &attachmentRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.Attachment, error) {
			return &models.Attachment{}, nil
		},
		createWithReqUpdateFn: func(_ context.Context, _ *models.Attachment, _ *models.Request) error {
			return nil
		},
		updateFn:               func(_ context.Context, _ *models.Attachment) error { return nil },
		deleteFn:               func(_ context.Context, _ uint) error { return nil },
		listActiveForAccountFn: func(_ context.Context, _ uint) ([]models.Attachment, error) { return nil, nil },
		listAllFn:              func(_ context.Context) ([]models.Attachment, error) { return nil, nil },
		listForAccountFn:       func(_ context.Context, _ uint) ([]models.Attachment, error) { return nil, nil },
	}
}

// storeStub is a stub for storage.Store.
type storeStub struct {
	saveFn   func(string, []byte) (string, error)
	removeFn func(string) error
	existsFn func(string) bool
	pathFn   func(string) string
}

func (s *storeStub) Save(name string, content []byte) (string, error) { return s.saveFn(name, content) }
func (s *storeStub) Remove(name string) error                         { return s.removeFn(name) }
func (s *storeStub) Exists(name string) bool                          { return s.existsFn(name) }
func (s *storeStub) Path(name string) string                          { return s.pathFn(name) }

func noopStore() *storeStub {
	return &storeStub{
		saveFn:   func(name string, _ []byte) (string, error) { return "/tmp/uploads/" + name, nil },
		removeFn: func(_ string) error { return nil },
		existsFn: func(_ string) bool { return true },
		pathFn:   func(name string) string { return "/tmp/uploads/" + name },
	}
}

func adminAccess() auth.AccessContext {
	return auth.AccessContext{Account: &models.Account{ID: 1, NationalID: models.AdminNationalID, FullName: "System Administrator"}}
}

func citizenAccess(id uint) auth.AccessContext {
	return auth.AccessContext{Account: &models.Account{ID: id, NationalID: "1234567890", Status: models.AccountStatusActive}}
}

func anonymousAccess() auth.AccessContext {
	return auth.AccessContext{}
}
