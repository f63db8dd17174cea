package models

import (
	"fmt"
	"time"
)

// Attachment binds a stored PDF to a request. StoredName is system-generated
// and never derived from the client-supplied filename; an inactive attachment
// is hidden from every non-admin read path but the row remains addressable.
type Attachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RequestID    uint      `gorm:"not null;index" json:"request_id"`
	Request      *Request  `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	StoredName   string    `gorm:"size:255;uniqueIndex;not null" json:"stored_name"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	Path         string    `gorm:"size:500;not null" json:"-"`
	Size         int64     `gorm:"not null" json:"size"`
	MIMEType     string    `gorm:"size:100;default:'application/pdf'" json:"mime_type"`
	UploadedBy   string    `gorm:"size:50;default:'admin'" json:"uploaded_by"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	Notes        string    `gorm:"type:text" json:"notes"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// TableName specifies the table name for GORM.
func (Attachment) TableName() string {
	return "attachments"
}

// SizeFormatted renders the byte size in a human-readable unit.
func (a *Attachment) SizeFormatted() string {
	switch {
	case a.Size < 1024:
		return fmt.Sprintf("%d B", a.Size)
	case a.Size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(a.Size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(a.Size)/(1024*1024))
	}
}
