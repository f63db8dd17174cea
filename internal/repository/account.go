// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"sehhaty/internal/models"

	"gorm.io/gorm"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Account, error)
	Search(ctx context.Context, query string) ([]models.Account, error)
	CountCitizens(ctx context.Context) (int64, error)
	CountRegisteredSince(ctx context.Context, since time.Time) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new AccountRepository implementation.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Account", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("national_id = ?", nationalID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Account already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Account already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	// Owned requests and their attachments are removed in the same transaction;
	// the foreign keys carry delete cascades but sqlite deployments may run
	// without enforcement, so the cascade is done explicitly.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var requestIDs []uint
		if err := tx.Model(&models.Request{}).Where("account_id = ?", id).Pluck("id", &requestIDs).Error; err != nil {
			return err
		}
		if len(requestIDs) > 0 {
			if err := tx.Where("request_id IN ?", requestIDs).Delete(&models.Attachment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("account_id = ?", id).Delete(&models.Request{}).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.Account{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Account", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).Order("registration_date DESC").Find(&accounts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return accounts, nil
}

// Search matches citizens by name, national ID, email, or phone. The
// administrator account is never returned.
func (r *accountRepository) Search(ctx context.Context, query string) ([]models.Account, error) {
	var accounts []models.Account
	like := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("national_id <> ?", models.AdminNationalID).
		Where("full_name LIKE ? OR national_id LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like, like).
		Order("registration_date DESC").
		Find(&accounts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return accounts, nil
}

func (r *accountRepository) CountCitizens(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("national_id <> ?", models.AdminNationalID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *accountRepository) CountRegisteredSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("registration_date >= ? AND national_id <> ?", since, models.AdminNationalID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
