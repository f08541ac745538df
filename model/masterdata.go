package model

import "time"

// Partner is a reselling or implementation partner.
type Partner struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	ContactName  string    `gorm:"type:varchar(255)" json:"contact_name"`
	ContactEmail string    `gorm:"type:varchar(255)" json:"contact_email"`
	Phone        string    `gorm:"type:varchar(64)" json:"phone"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Documents []Document `gorm:"foreignKey:PartnerID" json:"documents,omitempty"`
}

// Customer is the end customer an opportunity belongs to.
type Customer struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	ContactName  string    `gorm:"type:varchar(255)" json:"contact_name"`
	ContactEmail string    `gorm:"type:varchar(255)" json:"contact_email"`
	Phone        string    `gorm:"type:varchar(64)" json:"phone"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OpportunityStage tracks an opportunity through the pipeline until it is
// converted into an offer.
type OpportunityStage string

const (
	OpportunityOpen      OpportunityStage = "open"
	OpportunityQualified OpportunityStage = "qualified"
	OpportunityConverted OpportunityStage = "converted"
	OpportunityDropped   OpportunityStage = "dropped"
)

// Valid reports whether the stage is one of the enumerated values.
func (s OpportunityStage) Valid() bool {
	switch s {
	case OpportunityOpen, OpportunityQualified, OpportunityConverted, OpportunityDropped:
		return true
	}
	return false
}

type Opportunity struct {
	ID         string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string           `gorm:"type:varchar(255);not null" json:"name"`
	CustomerID string           `gorm:"type:varchar(36);index" json:"customer_id"`
	PartnerID  *string          `gorm:"type:varchar(36);index" json:"partner_id,omitempty"`
	OwnerID    string           `gorm:"type:varchar(36)" json:"owner_id"`
	Stage      OpportunityStage `gorm:"type:varchar(32);not null;default:open" json:"stage"`
	Notes      string           `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	Customer  *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Documents []Document `gorm:"foreignKey:OpportunityID" json:"documents,omitempty"`
}

// Project is the delivery project created once a contract is active.
type Project struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	ContractID string    `gorm:"type:varchar(36);index" json:"contract_id"`
	ManagerID  string    `gorm:"type:varchar(36)" json:"manager_id"`
	Status     string    `gorm:"type:varchar(32);default:planned" json:"status"`
	StartDate  time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Milestones []Milestone `gorm:"foreignKey:ProjectID" json:"milestones,omitempty"`
}

// Milestone is a dated checkpoint within a project.
type Milestone struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProjectID string     `gorm:"type:varchar(36);index;not null" json:"project_id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	DueDate   time.Time  `json:"due_date"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// LicensePrice is a master-data pricing row, maintained by hand or through
// spreadsheet import.
type LicensePrice struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Product     string    `gorm:"type:varchar(255);not null" json:"product"`
	LicenseType string    `gorm:"type:varchar(128);not null" json:"license_type"`
	UnitPrice   float64   `json:"unit_price"`
	Currency    string    `gorm:"type:varchar(8);default:EUR" json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
