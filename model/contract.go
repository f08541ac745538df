package model

import "time"

// ContractStatus is the contract lifecycle state.
type ContractStatus string

const (
	ContractDraft      ContractStatus = "draft"
	ContractActive     ContractStatus = "active"
	ContractExpired    ContractStatus = "expired"
	ContractTerminated ContractStatus = "terminated"
)

var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractDraft:      {ContractActive},
	ContractActive:     {ContractExpired, ContractTerminated},
	ContractExpired:    nil,
	ContractTerminated: nil,
}

// Valid reports whether the status is one of the enumerated values.
func (s ContractStatus) Valid() bool {
	_, ok := contractTransitions[s]
	return ok
}

// CanTransition reports whether the move from s to next is legal.
func (s ContractStatus) CanTransition(next ContractStatus) bool {
	for _, allowed := range contractTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Contract is the binding agreement generated from a won offer. At most one
// contract exists per offer (unique index on OfferID).
type Contract struct {
	ID                 string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Code               string         `gorm:"type:varchar(16);uniqueIndex" json:"code"`
	OfferID            string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"offer_id"`
	Summary            string         `gorm:"type:text;not null" json:"summary"`
	TotalContractValue float64        `json:"total_contract_value"`
	PaymentTerms       string         `gorm:"type:varchar(255);not null" json:"payment_terms"`
	StartDate          time.Time      `json:"start_date"`
	Status             ContractStatus `gorm:"type:varchar(32);not null;default:draft" json:"status"`
	CreatedByID        string         `gorm:"type:varchar(36)" json:"created_by_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`

	Offer     *Offer     `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
	CreatedBy *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Documents []Document `gorm:"foreignKey:ContractID" json:"documents,omitempty"`
}

// ContractTotalValue computes the total contract value from the offer's
// financial rollups: twelve months of recurring revenue plus one-time
// services.
func ContractTotalValue(mrrTotal, oneTimeServicesTotal float64) float64 {
	return mrrTotal*12 + oneTimeServicesTotal
}
