package model

import "time"

// OfferStatus is the offer lifecycle state. Every status write goes through
// the transition table below instead of comparing raw strings at call sites.
type OfferStatus string

const (
	OfferDraft    OfferStatus = "draft"
	OfferInReview OfferStatus = "in_review"
	OfferApproved OfferStatus = "approved"
	OfferSent     OfferStatus = "sent"
	OfferWon      OfferStatus = "won"
	OfferLost     OfferStatus = "lost"
	OfferHold     OfferStatus = "hold"
)

// offerTransitions is the single authoritative transition table:
// draft -> in_review (via the review-request flow only)
// in_review -> draft (back), approved
// approved -> in_review (back), sent
// sent -> won, lost, hold
// hold -> won, lost
// won and lost are terminal.
var offerTransitions = map[OfferStatus][]OfferStatus{
	OfferDraft:    {OfferInReview},
	OfferInReview: {OfferDraft, OfferApproved},
	OfferApproved: {OfferInReview, OfferSent},
	OfferSent:     {OfferWon, OfferLost, OfferHold},
	OfferHold:     {OfferWon, OfferLost},
	OfferWon:      nil,
	OfferLost:     nil,
}

// Valid reports whether the status is one of the seven enumerated values.
func (s OfferStatus) Valid() bool {
	_, ok := offerTransitions[s]
	return ok
}

// CanTransition reports whether the move from s to next is legal.
func (s OfferStatus) CanTransition(next OfferStatus) bool {
	for _, allowed := range offerTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from s. Callers render exactly these as
// available actions.
func (s OfferStatus) Next() []OfferStatus {
	return offerTransitions[s]
}

// Terminal reports whether no further transitions exist.
func (s OfferStatus) Terminal() bool {
	return s.Valid() && len(offerTransitions[s]) == 0
}

// Offer is a priced proposal tied to a sales opportunity. The financial
// rollups are recomputed from the nested environment/service records.
type Offer struct {
	ID                    string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Code                  string      `gorm:"type:varchar(16);uniqueIndex" json:"code"`
	OpportunityID         string      `gorm:"type:varchar(36);index" json:"opportunity_id"`
	Summary               string      `gorm:"type:text" json:"summary"`
	MRRTotal              float64     `json:"mrr_total"`
	OneTimeServicesTotal  float64     `json:"one_time_services_total"`
	Status                OfferStatus `gorm:"type:varchar(32);not null;default:draft" json:"status"`
	CreatedByID           string      `gorm:"type:varchar(36)" json:"created_by_id"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`

	Opportunity  *Opportunity       `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
	Environments []OfferEnvironment `gorm:"foreignKey:OfferID" json:"environments,omitempty"`
	ServiceSets  []OfferServiceSet  `gorm:"foreignKey:OfferID" json:"service_sets,omitempty"`
}

// OfferEnvironment groups the recurring components of an offer (one per
// deployment environment).
type OfferEnvironment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OfferID   string    `gorm:"type:varchar(36);index;not null" json:"offer_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Components []OfferComponent `gorm:"foreignKey:EnvironmentID" json:"components,omitempty"`
}

// OfferComponent is a monthly-priced line item inside an environment.
type OfferComponent struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	EnvironmentID string  `gorm:"type:varchar(36);index;not null" json:"environment_id"`
	Name          string  `gorm:"type:varchar(255);not null" json:"name"`
	MonthlyPrice  float64 `json:"monthly_price"`
	Quantity      int     `gorm:"default:1" json:"quantity"`
}

// OfferServiceSet groups one-time services of an offer.
type OfferServiceSet struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OfferID   string    `gorm:"type:varchar(36);index;not null" json:"offer_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Services []OfferService `gorm:"foreignKey:ServiceSetID" json:"services,omitempty"`
}

// OfferService is a one-time-priced line item inside a service set.
type OfferService struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ServiceSetID string  `gorm:"type:varchar(36);index;not null" json:"service_set_id"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Price        float64 `json:"price"`
}

// RollupTotals sums the nested records: monthly components into the MRR total
// and one-time services into the services total.
func (o *Offer) RollupTotals() (mrr float64, oneTime float64) {
	for _, env := range o.Environments {
		for _, comp := range env.Components {
			qty := comp.Quantity
			if qty == 0 {
				qty = 1
			}
			mrr += comp.MonthlyPrice * float64(qty)
		}
	}
	for _, set := range o.ServiceSets {
		for _, svc := range set.Services {
			oneTime += svc.Price
		}
	}
	return mrr, oneTime
}
