// Package service implements the business logic of the portal. Every
// capability-restricted operation takes an auth.AccessContext so the caller's
// identity and role are explicit at the call site.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"sehhaty/internal/auth"
	"sehhaty/internal/models"
	"sehhaty/internal/repository"
	"sehhaty/internal/storage"
	"sehhaty/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	accountRepo    repository.AccountRepository
	attachmentRepo repository.AttachmentRepository
	store          storage.Store
}

type RegisterInput struct {
	FullName   string
	NationalID string
	Email      string
	Phone      string
}

type LoginInput struct {
	NationalID string
	Password   string
}

type UpdateProfileInput struct {
	FullName string
	Email    string
	Phone    string
}

func NewAccountService(accountRepo repository.AccountRepository, attachmentRepo repository.AttachmentRepository, store storage.Store) *AccountService {
	return &AccountService{
		accountRepo:    accountRepo,
		attachmentRepo: attachmentRepo,
		store:          store,
	}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	if in.FullName == "" {
		return nil, models.NewMissingFieldError("full_name")
	}
	if in.NationalID == "" {
		return nil, models.NewMissingFieldError("national_id")
	}
	if in.Email == "" {
		return nil, models.NewMissingFieldError("email")
	}
	if in.Phone == "" {
		return nil, models.NewMissingFieldError("phone")
	}
	if in.NationalID == models.AdminNationalID {
		return nil, models.NewConflictError("National ID already registered")
	}
	if err := validation.ValidateNationalID(in.NationalID); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, err
	}

	if existing, err := s.accountRepo.GetByNationalID(ctx, in.NationalID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("National ID already registered")
	}
	if existing, err := s.accountRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	account := &models.Account{
		FullName:         in.FullName,
		NationalID:       in.NationalID,
		Email:            in.Email,
		Phone:            in.Phone,
		Status:           models.AccountStatusActive,
		RegistrationDate: time.Now(),
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "account registered", "account_id", account.ID)
	return account, nil
}

// Login authenticates by national ID. Citizen accounts carry no password;
// only the administrator has a hash to verify against.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*models.Account, error) {
	if in.NationalID == "" {
		return nil, models.NewMissingFieldError("national_id")
	}

	account, err := s.accountRepo.GetByNationalID(ctx, in.NationalID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, models.NewNotFoundError("Account", in.NationalID)
	}
	if account.IsBlocked() {
		return nil, models.NewForbiddenError("Account is blocked")
	}
	if account.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
			return nil, models.NewUnauthenticatedError("Invalid credentials")
		}
	}

	now := time.Now()
	account.LastLogin = &now
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "account logged in", "account_id", account.ID, "admin", account.IsAdmin())
	return account, nil
}

func (s *AccountService) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

func (s *AccountService) UpdateProfile(ctx context.Context, access auth.AccessContext, in UpdateProfileInput) (*models.Account, error) {
	if !access.Authenticated() {
		return nil, models.NewUnauthenticatedError("Login required")
	}

	account, err := s.accountRepo.GetByID(ctx, access.AccountID())
	if err != nil {
		return nil, err
	}

	if in.FullName != "" {
		account.FullName = in.FullName
	}
	if in.Email != "" && in.Email != account.Email {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, err
		}
		other, err := s.accountRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != account.ID {
			return nil, models.NewConflictError("Email already registered")
		}
		account.Email = in.Email
	}
	if in.Phone != "" {
		if err := validation.ValidatePhone(in.Phone); err != nil {
			return nil, err
		}
		account.Phone = in.Phone
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) List(ctx context.Context, access auth.AccessContext) ([]models.Account, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}
	return s.accountRepo.List(ctx)
}

// Search finds citizen accounts matching name, national ID, email, or phone.
// A blank query returns no results rather than everything.
func (s *AccountService) Search(ctx context.Context, access auth.AccessContext, query string) ([]models.Account, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Account{}, nil
	}
	return s.accountRepo.Search(ctx, query)
}

func (s *AccountService) Block(ctx context.Context, access auth.AccessContext, id uint) (*models.Account, error) {
	return s.setStatus(ctx, access, id, models.AccountStatusBlocked)
}

func (s *AccountService) Unblock(ctx context.Context, access auth.AccessContext, id uint) (*models.Account, error) {
	return s.setStatus(ctx, access, id, models.AccountStatusActive)
}

func (s *AccountService) setStatus(ctx context.Context, access auth.AccessContext, id uint, status models.AccountStatus) (*models.Account, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.IsAdmin() {
		return nil, models.NewForbiddenError("The administrator account cannot be blocked")
	}

	account.Status = status
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "account status changed", "account_id", account.ID, "status", status)
	return account, nil
}

// Delete removes an account with its requests and attachments. Attachment
// bytes are swept off disk after the rows commit; a file that fails to delete
// is logged and left behind rather than failing the operation.
func (s *AccountService) Delete(ctx context.Context, access auth.AccessContext, id uint) error {
	if !access.IsAdmin() {
		return models.NewForbiddenError("Administrator access required")
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account.IsAdmin() {
		return models.NewForbiddenError("The administrator account cannot be deleted")
	}

	attachments, err := s.attachmentRepo.ListForAccount(ctx, id)
	if err != nil {
		return err
	}

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, att := range attachments {
		if err := s.store.Remove(att.StoredName); err != nil {
			slog.WarnContext(ctx, "orphaned attachment file left on disk",
				"stored_name", att.StoredName, "error", err)
		}
	}

	slog.InfoContext(ctx, "account deleted", "account_id", id, "attachments_swept", len(attachments))
	return nil
}
