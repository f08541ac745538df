package model

import "time"

// DocumentContext identifies which kind of entity a document is attached to
// and thereby which storage bucket holds its bytes.
type DocumentContext string

const (
	DocContextReview      DocumentContext = "review"
	DocContextContract    DocumentContext = "contract"
	DocContextPartner     DocumentContext = "partner"
	DocContextOpportunity DocumentContext = "opportunity"
)

// Valid reports whether the context is one of the enumerated values.
func (c DocumentContext) Valid() bool {
	switch c {
	case DocContextReview, DocContextContract, DocContextPartner, DocContextOpportunity:
		return true
	}
	return false
}

// Document is stored file metadata. The bytes live in object storage under
// StoragePath; exactly one owner reference is set, matching Context.
type Document struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	StoragePath  string          `gorm:"type:varchar(512);not null" json:"storage_path"`
	MIMEType     string          `gorm:"type:varchar(128)" json:"mime_type"`
	Size         int64           `json:"size"`
	Context      DocumentContext `gorm:"type:varchar(32);not null;index" json:"context"`
	RequestID    *string         `gorm:"type:varchar(36);index" json:"request_id,omitempty"`
	ContractID   *string         `gorm:"type:varchar(36);index" json:"contract_id,omitempty"`
	PartnerID    *string         `gorm:"type:varchar(36);index" json:"partner_id,omitempty"`
	OpportunityID *string        `gorm:"type:varchar(36);index" json:"opportunity_id,omitempty"`
	UploadedByID string          `gorm:"type:varchar(36)" json:"uploaded_by_id"`
	CreatedAt    time.Time       `json:"created_at"`

	UploadedBy *User `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
}

// DocumentMeta is the stored-object metadata handed back by the upload step
// before any database row exists.
type DocumentMeta struct {
	Name        string `json:"name"`
	StoragePath string `json:"storage_path"`
	MIMEType    string `json:"mime_type"`
	Size        int64  `json:"size"`
}
