package repository

import (
	"context"
	"errors"

	"sehhaty/internal/models"

	"gorm.io/gorm"
)

// AttachmentRepository defines persistence operations for uploaded documents.
type AttachmentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Attachment, error)
	CreateWithRequestUpdate(ctx context.Context, attachment *models.Attachment, request *models.Request) error
	Update(ctx context.Context, attachment *models.Attachment) error
	Delete(ctx context.Context, id uint) error
	ListActiveForAccount(ctx context.Context, accountID uint) ([]models.Attachment, error)
	ListAll(ctx context.Context) ([]models.Attachment, error)
	ListForAccount(ctx context.Context, accountID uint) ([]models.Attachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository returns a new AttachmentRepository implementation.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) GetByID(ctx context.Context, id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Request.Account").
		First(&attachment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Attachment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &attachment, nil
}

// CreateWithRequestUpdate inserts the attachment and persists the updated
// request state in a single transaction, so a document never lands on a
// request whose status change did not commit.
func (r *attachmentRepository) CreateWithRequestUpdate(ctx context.Context, attachment *models.Attachment, request *models.Request) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attachment).Error; err != nil {
			return err
		}
		return tx.Save(request).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Attachment already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *attachmentRepository) Update(ctx context.Context, attachment *models.Attachment) error {
	if err := r.db.WithContext(ctx).Save(attachment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Attachment{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Attachment", id)
	}
	return nil
}

func (r *attachmentRepository) ListActiveForAccount(ctx context.Context, accountID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.WithContext(ctx).
		Preload("Request").
		Joins("JOIN requests ON requests.id = attachments.request_id").
		Where("requests.account_id = ? AND attachments.is_active = ?", accountID, true).
		Order("attachments.uploaded_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return attachments, nil
}

func (r *attachmentRepository) ListAll(ctx context.Context) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Request.Account").
		Order("uploaded_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return attachments, nil
}

// ListForAccount returns every attachment owned by the account regardless of
// visibility. Used when tearing down an account to sweep files off disk.
func (r *attachmentRepository) ListForAccount(ctx context.Context, accountID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.WithContext(ctx).
		Joins("JOIN requests ON requests.id = attachments.request_id").
		Where("requests.account_id = ?", accountID).
		Find(&attachments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return attachments, nil
}
