package models

import (
	"encoding/json"
	"time"
)

// RequestType identifies the service a citizen is asking for; each type has its
// own required payload fields.
type RequestType string

const (
	RequestTypeAppointment       RequestType = "appointment"
	RequestTypeConsultation      RequestType = "consultation"
	RequestTypeMedicalRequest    RequestType = "medical_request"
	RequestTypeMedicalExcuse     RequestType = "medical_excuse"
	RequestTypeReviewCertificate RequestType = "review_certificate"
	RequestTypeCompanionReport   RequestType = "patient_companion_report"
)

// RequiredFields maps each request type to the payload fields it must carry.
var RequiredFields = map[RequestType][]string{
	RequestTypeAppointment:       {"specialty", "city", "preferredDate", "preferredTime"},
	RequestTypeConsultation:      {"consultationType", "description"},
	RequestTypeMedicalRequest:    {"reportType", "purpose"},
	RequestTypeMedicalExcuse:     {"startDate", "endDate", "region", "workplace"},
	RequestTypeReviewCertificate: {"reviewDate", "region", "workplace"},
	RequestTypeCompanionReport: {
		"patientName", "patientNationalId", "hospitalEntryDate", "hospitalExitDate",
		"medicalCondition", "region", "companionName", "companionNationalId", "relationship",
	},
}

// ValidRequestType reports whether t names a known request type.
func ValidRequestType(t RequestType) bool {
	_, ok := RequiredFields[t]
	return ok
}

// RequestStatus is the lifecycle state of a request.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// ValidRequestStatus reports whether s is one of the four enumerated statuses.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further owner-initiated transition.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// Request represents a citizen-submitted service request and its processing outcome.
// Data and ProcessedData are stored as opaque JSON text blobs and parsed lazily.
type Request struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	AccountID     uint          `gorm:"not null;index" json:"account_id"`
	Account       *Account      `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Type          RequestType   `gorm:"type:varchar(50);not null" json:"type"`
	Status        RequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Data          string        `gorm:"type:text;not null" json:"-"`
	ProcessedData string        `gorm:"type:text" json:"-"`
	Notes         string        `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Attachments   []Attachment  `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// TableName specifies the table name for GORM.
func (Request) TableName() string {
	return "requests"
}

// SetData serializes the payload into the stored blob.
func (r *Request) SetData(payload map[string]string) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.Data = string(encoded)
	return nil
}

// Payload decodes the stored request payload. A corrupt or empty blob decodes
// to the empty map rather than an error; callers always get usable data.
func (r *Request) Payload() map[string]string {
	return decodePayload(r.Data)
}

// SetProcessedData serializes the admin-produced payload into the stored blob.
func (r *Request) SetProcessedData(payload map[string]string) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.ProcessedData = string(encoded)
	return nil
}

// ProcessedPayload decodes the stored processed payload with the same
// empty-map-on-corruption behavior as Payload.
func (r *Request) ProcessedPayload() map[string]string {
	return decodePayload(r.ProcessedData)
}

func decodePayload(blob string) map[string]string {
	if blob == "" {
		return map[string]string{}
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(blob), &out); err != nil || out == nil {
		return map[string]string{}
	}
	return out
}

// MarshalJSON renders the request with its payloads decoded.
func (r Request) MarshalJSON() ([]byte, error) {
	type alias Request
	return json.Marshal(struct {
		alias
		Data          map[string]string `json:"data"`
		ProcessedData map[string]string `json:"processed_data"`
	}{
		alias:         alias(r),
		Data:          r.Payload(),
		ProcessedData: r.ProcessedPayload(),
	})
}
