package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"sehhaty/internal/auth"
	"sehhaty/internal/models"
	"sehhaty/internal/observability"
	"sehhaty/internal/repository"
	"sehhaty/internal/storage"

	"github.com/google/uuid"
)

type AttachmentService struct {
	attachmentRepo repository.AttachmentRepository
	requestRepo    repository.RequestRepository
	store          storage.Store
	maxUploadBytes int64
}

type AttachInput struct {
	RequestID    uint
	OriginalName string
	Content      []byte
	Notes        string
}

// AttachmentView is an attachment enriched with its owning request, as shown
// in the citizen's document list.
type AttachmentView struct {
	models.Attachment
	RequestType models.RequestType `json:"request_type"`
	RequestData map[string]string  `json:"request_data"`
}

// AdminAttachmentView additionally carries the owning account.
type AdminAttachmentView struct {
	AttachmentView
	Account *models.AccountSummary `json:"account,omitempty"`
}

// DeleteOutcome reports whether the attachment row was removed or, after a
// failed physical delete, merely deactivated.
type DeleteOutcome struct {
	Deleted  bool `json:"deleted"`
	Disabled bool `json:"disabled"`
}

func NewAttachmentService(attachmentRepo repository.AttachmentRepository, requestRepo repository.RequestRepository, store storage.Store, maxUploadBytes int64) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		requestRepo:    requestRepo,
		store:          store,
		maxUploadBytes: maxUploadBytes,
	}
}

// Attach stores a fulfillment document against a medical_request and forces
// the request to completed. Bytes land on disk first; if the database insert
// then fails the stored file is removed so no orphan survives.
func (s *AttachmentService) Attach(ctx context.Context, access auth.AccessContext, in AttachInput) (*models.Attachment, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}

	request, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if request.Type != models.RequestTypeMedicalRequest {
		return nil, models.NewUnsupportedOperationError(request.Type)
	}
	if in.OriginalName == "" || len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if !strings.EqualFold(filepath.Ext(in.OriginalName), ".pdf") {
		return nil, models.NewInvalidFileTypeError(in.OriginalName)
	}
	if int64(len(in.Content)) > s.maxUploadBytes {
		return nil, models.NewValidationError("File too large (max 16MB)")
	}

	storedName := uuid.New().String() + ".pdf"
	path, err := s.store.Save(storedName, in.Content)
	if err != nil {
		return nil, models.NewStorageFailureError(err)
	}

	attachment := &models.Attachment{
		RequestID:    request.ID,
		StoredName:   storedName,
		OriginalName: in.OriginalName,
		Path:         path,
		Size:         int64(len(in.Content)),
		MIMEType:     "application/pdf",
		UploadedBy:   models.AdminNationalID,
		IsActive:     true,
		Notes:        in.Notes,
		UploadedAt:   time.Now(),
	}
	request.Status = models.RequestStatusCompleted
	request.UpdatedAt = time.Now()

	if err := s.attachmentRepo.CreateWithRequestUpdate(ctx, attachment, request); err != nil {
		if removeErr := s.store.Remove(storedName); removeErr != nil {
			slog.ErrorContext(ctx, "compensating file delete failed",
				"stored_name", storedName, "error", removeErr)
		} else {
			observability.AttachmentCleanups.Inc()
		}
		return nil, err
	}

	observability.AttachmentBytesStored.Add(float64(attachment.Size))
	observability.RequestTransitions.WithLabelValues(string(models.RequestStatusCompleted)).Inc()
	slog.InfoContext(ctx, "attachment stored",
		"attachment_id", attachment.ID, "request_id", request.ID, "size", attachment.Size)
	return attachment, nil
}

// ListForAccount returns the caller's active documents, each carrying the
// owning request's type and payload for display.
func (s *AttachmentService) ListForAccount(ctx context.Context, access auth.AccessContext) ([]AttachmentView, error) {
	if !access.Authenticated() {
		return nil, models.NewUnauthenticatedError("Login required")
	}

	attachments, err := s.attachmentRepo.ListActiveForAccount(ctx, access.AccountID())
	if err != nil {
		return nil, err
	}

	views := make([]AttachmentView, 0, len(attachments))
	for _, att := range attachments {
		views = append(views, enrich(att))
	}
	return views, nil
}

func (s *AttachmentService) ListAll(ctx context.Context, access auth.AccessContext) ([]AdminAttachmentView, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}

	attachments, err := s.attachmentRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]AdminAttachmentView, 0, len(attachments))
	for _, att := range attachments {
		view := AdminAttachmentView{AttachmentView: enrich(att)}
		if att.Request != nil && att.Request.Account != nil {
			summary := att.Request.Account.Summary()
			view.Account = &summary
		}
		views = append(views, view)
	}
	return views, nil
}

func enrich(att models.Attachment) AttachmentView {
	view := AttachmentView{Attachment: att, RequestData: map[string]string{}}
	if att.Request != nil {
		view.RequestType = att.Request.Type
		view.RequestData = att.Request.Payload()
	}
	return view
}

// Open resolves an attachment for download or inline viewing. The owner and
// the administrator may open it; an inactive record or missing file reads as
// not found.
func (s *AttachmentService) Open(ctx context.Context, access auth.AccessContext, id uint) (*models.Attachment, string, error) {
	if !access.Authenticated() {
		return nil, "", models.NewUnauthenticatedError("Login required")
	}

	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !access.IsAdmin() {
		if attachment.Request == nil || attachment.Request.AccountID != access.AccountID() {
			return nil, "", models.NewForbiddenError("Not your document")
		}
		if !attachment.IsActive {
			return nil, "", models.NewNotFoundError("Attachment", id)
		}
	}
	if !s.store.Exists(attachment.StoredName) {
		return nil, "", models.NewNotFoundError("Attachment", id)
	}

	return attachment, s.store.Path(attachment.StoredName), nil
}

// Delete removes an attachment, file first. When the physical delete fails
// the record is kept but deactivated, so the dangling row can be retried or
// audited later.
func (s *AttachmentService) Delete(ctx context.Context, access auth.AccessContext, id uint) (*DeleteOutcome, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}

	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.store.Exists(attachment.StoredName) {
		if err := s.store.Remove(attachment.StoredName); err != nil {
			slog.WarnContext(ctx, "physical delete failed, disabling attachment",
				"attachment_id", id, "error", err)
			attachment.IsActive = false
			if updateErr := s.attachmentRepo.Update(ctx, attachment); updateErr != nil {
				return nil, updateErr
			}
			return &DeleteOutcome{Disabled: true}, nil
		}
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "attachment deleted", "attachment_id", id)
	return &DeleteOutcome{Deleted: true}, nil
}

func (s *AttachmentService) ToggleActive(ctx context.Context, access auth.AccessContext, id uint) (*models.Attachment, error) {
	if !access.IsAdmin() {
		return nil, models.NewForbiddenError("Administrator access required")
	}

	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	attachment.IsActive = !attachment.IsActive
	if err := s.attachmentRepo.Update(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}
