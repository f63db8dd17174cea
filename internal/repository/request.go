package repository

import (
	"context"
	"errors"
	"time"

	"sehhaty/internal/models"

	"gorm.io/gorm"
)

// RequestFilter narrows admin request listings. Zero values mean no filtering.
type RequestFilter struct {
	Type   models.RequestType
	Status models.RequestStatus
	Search string // matches account full name or national ID
}

// RequestStatistics aggregates request counts for the admin dashboard.
type RequestStatistics struct {
	Total    int64                          `json:"total"`
	ByStatus map[models.RequestStatus]int64 `json:"by_status"`
	ByType   map[models.RequestType]int64   `json:"by_type"`
	Today    int64                          `json:"today"`
	LastWeek int64                          `json:"last_week"`
}

// RequestRepository defines persistence operations for service requests.
type RequestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Request, error)
	GetForAccount(ctx context.Context, id, accountID uint) (*models.Request, error)
	Create(ctx context.Context, request *models.Request) error
	Update(ctx context.Context, request *models.Request) error
	ListForAccount(ctx context.Context, accountID uint) ([]models.Request, error)
	ListAll(ctx context.Context, filter RequestFilter) ([]models.Request, error)
	Statistics(ctx context.Context) (*RequestStatistics, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository returns a new RequestRepository implementation.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Attachments").
		First(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// GetForAccount fetches a request only if it belongs to the given account.
// A request owned by someone else is indistinguishable from a missing one.
func (r *requestRepository) GetForAccount(ctx context.Context, id, accountID uint) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("id = ? AND account_id = ?", id, accountID).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *requestRepository) Create(ctx context.Context, request *models.Request) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) Update(ctx context.Context, request *models.Request) error {
	if err := r.db.WithContext(ctx).Save(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) ListForAccount(ctx context.Context, accountID uint) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *requestRepository) ListAll(ctx context.Context, filter RequestFilter) ([]models.Request, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Preload("Account").
		Preload("Attachments")

	if filter.Type != "" {
		query = query.Where("requests.type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("requests.status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Joins("JOIN accounts ON accounts.id = requests.account_id").
			Where("accounts.full_name LIKE ? OR accounts.national_id LIKE ? OR accounts.email LIKE ? OR accounts.phone LIKE ?",
				pattern, pattern, pattern, pattern)
	}

	var requests []models.Request
	if err := query.Order("requests.created_at DESC").Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *requestRepository) Statistics(ctx context.Context) (*RequestStatistics, error) {
	stats := &RequestStatistics{
		ByStatus: make(map[models.RequestStatus]int64),
		ByType:   make(map[models.RequestType]int64),
	}

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Request{}).Count(&stats.Total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byStatus []bucket
	if err := db.Model(&models.Request{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, b := range byStatus {
		stats.ByStatus[models.RequestStatus(b.Key)] = b.Count
	}

	var byType []bucket
	if err := db.Model(&models.Request{}).
		Select("type AS key, COUNT(*) AS count").
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, b := range byType {
		stats.ByType[models.RequestType(b.Key)] = b.Count
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.Request{}).
		Where("created_at >= ?", midnight).
		Count(&stats.Today).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Request{}).
		Where("created_at >= ?", now.AddDate(0, 0, -7)).
		Count(&stats.LastWeek).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return stats, nil
}
