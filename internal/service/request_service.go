package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"sehhaty/internal/auth"
	"sehhaty/internal/models"
	"sehhaty/internal/observability"
	"sehhaty/internal/repository"
)

type RequestService struct {
	requestRepo repository.RequestRepository
	accountRepo repository.AccountRepository
}

type CreateRequestInput struct {
	Type    models.RequestType
	Payload map[string]string
}

type SetStatusInput struct {
	RequestID     uint
	Status        models.RequestStatus
	Notes         string
	ProcessedData map[string]string
}

type ProcessInput struct {
	RequestID uint
	Fields    map[string]string
	Notes     string
}

// Statistics combines request and account aggregates for the dashboard.
type Statistics struct {
	Requests      *repository.RequestStatistics `json:"requests"`
	TotalCitizens int64                         `json:"total_citizens"`
	NewAccounts   int64                         `json:"new_accounts"`
}

// processedFields lists the fulfillment fields the administrator fills in
// per request type. Types absent here cannot be processed, only resolved
// through a plain status change or a document upload.
var processedFields = map[models.RequestType][]string{
	models.RequestTypeAppointment: {
		"hospitalName", "doctorName", "doctorSpecialty", "doctorPhone",
		"appointmentDate", "appointmentTime",
	},
	models.RequestTypeConsultation: {
		"doctorName", "doctorSpecialty", "doctorPhone",
	},
}

func NewRequestService(requestRepo repository.RequestRepository, accountRepo repository.AccountRepository) *RequestService {
	return &RequestService{requestRepo: requestRepo, accountRepo: accountRepo}
}

func (s *RequestService) Create(ctx context.Context, access auth.AccessContext, in CreateRequestInput) (*models.Request, error) {
	if !access.Authenticated() {
		return nil, models.NewUnauthenticatedError("Login required")
	}
	if !models.ValidRequestType(in.Type) {
		return nil, models.NewInvalidTypeError(string(in.Type))
	}
	for _, field := range models.RequiredFields[in.Type] {
		if strings.TrimSpace(in.Payload[field]) == "" {
			return nil, models.NewMissingFieldError(field)
		}
	}

	request := &models.Request{
		AccountID: access.AccountID(),
		Type:      in.Type,
		Status:    models.RequestStatusPending,
	}
	if err := request.SetData(in.Payload); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	observability.RequestsCreated.WithLabelValues(string(in.Type)).Inc()
	slog.InfoContext(ctx, "request created", "request_id", request.ID, "type", in.Type)
	return request, nil
}

// Get returns a request visible to the caller. The administrator sees any
// request; a citizen only their own, with foreign requests reported as missing.
func (s *RequestService) Get(ctx context.Context, access auth.AccessContext, id uint) (*models.Request, error) {
	if !access.Authenticated() {
		return nil, models.NewUnauthenticatedError("Login required")
	}
	if access.IsAdmin() {
		return s.requestRepo.GetByID(ctx, id)
	}
	return s.requestRepo.GetForAccount(ctx, id, access.AccountID())
}

func (s *RequestService) ListForAccount(ctx context.Context, access auth.AccessContext) ([]models.Request, error) {
	if !access.Authenticated() {
		return nil, models.NewUnauthenticatedError("Login required")
	}
	return s.requestRepo.ListForAccount(ctx, access.AccountID())
}

func (s *RequestService) ListAll(ctx context.Context, access auth.AccessContext, filter repository.RequestFilter) ([]models.Request, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}
	if filter.Type != "" && !models.ValidRequestType(filter.Type) {
		return nil, models.NewInvalidTypeError(string(filter.Type))
	}
	if filter.Status != "" && !models.ValidRequestStatus(filter.Status) {
		return nil, models.NewInvalidStatusError(string(filter.Status))
	}
	return s.requestRepo.ListAll(ctx, filter)
}

// Cancel moves an owned request to cancelled. Terminal requests stay put.
func (s *RequestService) Cancel(ctx context.Context, access auth.AccessContext, id uint) (*models.Request, error) {
	if !access.Authenticated() {
		return nil, models.NewUnauthenticatedError("Login required")
	}

	request, err := s.requestRepo.GetForAccount(ctx, id, access.AccountID())
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, models.NewInvalidTransitionError(request.Status)
	}

	request.Status = models.RequestStatusCancelled
	request.UpdatedAt = time.Now()
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	observability.RequestTransitions.WithLabelValues(string(models.RequestStatusCancelled)).Inc()
	slog.InfoContext(ctx, "request cancelled", "request_id", request.ID)
	return request, nil
}

// AdminSetStatus moves a request to any valid status. Unlike owner
// cancellation this deliberately allows leaving terminal states, so the
// administrator can reopen a request closed by mistake.
func (s *RequestService) AdminSetStatus(ctx context.Context, access auth.AccessContext, in SetStatusInput) (*models.Request, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}
	if !models.ValidRequestStatus(in.Status) {
		return nil, models.NewInvalidStatusError(string(in.Status))
	}

	request, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}

	request.Status = in.Status
	if in.Notes != "" {
		request.Notes = in.Notes
	}
	if in.ProcessedData != nil {
		if err := request.SetProcessedData(in.ProcessedData); err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	request.UpdatedAt = time.Now()
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	observability.RequestTransitions.WithLabelValues(string(in.Status)).Inc()
	slog.InfoContext(ctx, "request status set", "request_id", request.ID, "status", in.Status)
	return request, nil
}

// AdminProcess fulfills an appointment or consultation with the scheduling
// details and forces the request to completed.
func (s *RequestService) AdminProcess(ctx context.Context, access auth.AccessContext, in ProcessInput) (*models.Request, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}

	request, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}

	fields, ok := processedFields[request.Type]
	if !ok {
		return nil, models.NewUnsupportedOperationError(request.Type)
	}

	processed := make(map[string]string, len(fields))
	for _, field := range fields {
		value := strings.TrimSpace(in.Fields[field])
		if value == "" {
			return nil, models.NewMissingFieldError(field)
		}
		processed[field] = value
	}

	if err := request.SetProcessedData(processed); err != nil {
		return nil, models.NewInternalError(err)
	}
	request.Status = models.RequestStatusCompleted
	if in.Notes != "" {
		request.Notes = in.Notes
	}
	request.UpdatedAt = time.Now()
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	observability.RequestTransitions.WithLabelValues(string(models.RequestStatusCompleted)).Inc()
	slog.InfoContext(ctx, "request processed", "request_id", request.ID, "type", request.Type)
	return request, nil
}

// ExportRecord is one row of the full request dump, with the owning account
// details and decoded payloads flattened in.
type ExportRecord struct {
	RequestID         uint                 `json:"request_id"`
	AccountName       string               `json:"account_name"`
	AccountNationalID string               `json:"account_national_id"`
	AccountEmail      string               `json:"account_email"`
	AccountPhone      string               `json:"account_phone"`
	Type              models.RequestType   `json:"request_type"`
	Status            models.RequestStatus `json:"status"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Data              map[string]string    `json:"data"`
	ProcessedData     map[string]string    `json:"processed_data"`
	Notes             string               `json:"notes"`
}

// Export returns every request with account details for offline reporting.
func (s *RequestService) Export(ctx context.Context, access auth.AccessContext) ([]ExportRecord, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}

	requests, err := s.requestRepo.ListAll(ctx, repository.RequestFilter{})
	if err != nil {
		return nil, err
	}

	records := make([]ExportRecord, 0, len(requests))
	for _, r := range requests {
		record := ExportRecord{
			RequestID:     r.ID,
			Type:          r.Type,
			Status:        r.Status,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
			Data:          r.Payload(),
			ProcessedData: r.ProcessedPayload(),
			Notes:         r.Notes,
		}
		if r.Account != nil {
			record.AccountName = r.Account.FullName
			record.AccountNationalID = r.Account.NationalID
			record.AccountEmail = r.Account.Email
			record.AccountPhone = r.Account.Phone
		}
		records = append(records, record)
	}

	slog.InfoContext(ctx, "requests exported", "records", len(records))
	return records, nil
}

func (s *RequestService) Statistics(ctx context.Context, access auth.AccessContext) (*Statistics, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}

	requestStats, err := s.requestRepo.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	citizens, err := s.accountRepo.CountCitizens(ctx)
	if err != nil {
		return nil, err
	}
	newAccounts, err := s.accountRepo.CountRegisteredSince(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	return &Statistics{
		Requests:      requestStats,
		TotalCitizens: citizens,
		NewAccounts:   newAccounts,
	}, nil
}
