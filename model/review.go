package model

import "time"

// ReviewType partitions reviews into two independent tracks.
type ReviewType string

const (
	ReviewTechnical  ReviewType = "technical"
	ReviewCommercial ReviewType = "commercial"
)

// Valid reports whether the type is one of the two tracks.
func (t ReviewType) Valid() bool {
	return t == ReviewTechnical || t == ReviewCommercial
}

// ReviewStatus is the per-reviewer decision state.
type ReviewStatus string

const (
	ReviewPending          ReviewStatus = "pending"
	ReviewApproved         ReviewStatus = "approved"
	ReviewNeedsImprovement ReviewStatus = "needs_improvement"
)

// Valid reports whether the status is one of the enumerated values.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewNeedsImprovement:
		return true
	}
	return false
}

// Decision reports whether the status is a reviewer decision (not pending).
func (s ReviewStatus) Decision() bool {
	return s == ReviewApproved || s == ReviewNeedsImprovement
}

// ReviewRequest is created once per "send for review" action on an offer.
// Immutable after creation; resends reset the individual Reviews instead.
type ReviewRequest struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OfferID       string    `gorm:"type:varchar(36);index;not null" json:"offer_id"`
	RequestedByID string    `gorm:"type:varchar(36);not null" json:"requested_by_id"`
	Details       string    `gorm:"type:text;not null" json:"details"`
	CreatedAt     time.Time `json:"created_at"`

	RequestedBy *User      `gorm:"foreignKey:RequestedByID" json:"requested_by,omitempty"`
	Reviews     []Review   `gorm:"foreignKey:RequestID" json:"reviews,omitempty"`
	Documents   []Document `gorm:"foreignKey:RequestID" json:"documents,omitempty"`
}

// Review is one reviewer's slot on a request: one row per assigned reviewer
// per track.
type Review struct {
	ID         string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RequestID  string       `gorm:"type:varchar(36);index;not null" json:"request_id"`
	ReviewerID string       `gorm:"type:varchar(36);index;not null" json:"reviewer_id"`
	Type       ReviewType   `gorm:"type:varchar(16);not null" json:"type"`
	Status     ReviewStatus `gorm:"type:varchar(32);not null;default:pending" json:"status"`
	Comments   string       `gorm:"type:text" json:"comments"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// ReviewHistoryEntry is the canonical append-only audit row for every
// review-status change, including resends. Never updated or deleted.
type ReviewHistoryEntry struct {
	ID             string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ReviewID       string       `gorm:"type:varchar(36);index;not null" json:"review_id"`
	PreviousStatus ReviewStatus `gorm:"type:varchar(32);not null" json:"previous_status"`
	NewStatus      ReviewStatus `gorm:"type:varchar(32);not null" json:"new_status"`
	Comment        string       `gorm:"type:text" json:"comment"`
	ActorID        string       `gorm:"type:varchar(36);not null" json:"actor_id"`
	CreatedAt      time.Time    `gorm:"index" json:"created_at"`

	Actor  *User   `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Review *Review `gorm:"foreignKey:ReviewID" json:"review,omitempty"`
}
