package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
)

// OfferService owns the offer lifecycle outside the review flow: listing,
// financial rollups, status transitions and conversion from opportunities.
type OfferService struct {
	db *gorm.DB
}

func NewOfferService(db *gorm.DB) *OfferService {
	return &OfferService{db: db}
}

func (s *OfferService) List(ctx context.Context) ([]model.Offer, error) {
	var offers []model.Offer
	err := s.db.WithContext(ctx).
		Preload("Opportunity").
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// Get loads an offer with its nested environments, components, service sets
// and services.
func (s *OfferService) Get(ctx context.Context, id string) (*model.Offer, error) {
	var offer model.Offer
	err := s.db.WithContext(ctx).
		Preload("Opportunity.Customer").
		Preload("Environments.Components").
		Preload("ServiceSets.Services").
		First(&offer, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("offer %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &offer, nil
}

// RecomputeTotals re-derives the offer's financial rollups from its nested
// records and persists them.
func (s *OfferService) RecomputeTotals(ctx context.Context, id string) (*model.Offer, error) {
	offer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mrr, oneTime := offer.RollupTotals()
	err = s.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ?", offer.ID).
		Updates(map[string]interface{}{
			"mrr_total":               mrr,
			"one_time_services_total": oneTime,
		}).Error
	if err != nil {
		return nil, err
	}

	offer.MRRTotal = mrr
	offer.OneTimeServicesTotal = oneTime
	return offer, nil
}

// Transition moves the offer to the next status if the transition table
// allows it. A draft offer cannot enter review this way: that step is taken
// only by the review-request flow. Pulling an approved offer back to review
// is a plain transition.
func (s *OfferService) Transition(ctx context.Context, actor Actor, id string, next model.OfferStatus) (*model.Offer, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}

	var offer model.Offer
	err := s.db.WithContext(ctx).First(&offer, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("offer %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if next == model.OfferInReview && offer.Status == model.OfferDraft {
		return nil, ErrReviewRequired
	}
	if !offer.Status.CanTransition(next) {
		return nil, fmt.Errorf("%s -> %s: %w", offer.Status, next, ErrInvalidTransition)
	}

	if err := s.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ?", offer.ID).
		Update("status", next).Error; err != nil {
		return nil, err
	}

	logger.Info(ctx, "offer status changed",
		"offer_id", offer.ID,
		"from", offer.Status,
		"to", next,
	)
	offer.Status = next
	return &offer, nil
}

// ConvertOpportunity creates a draft offer from an opportunity and marks the
// opportunity converted, in one transaction.
func (s *OfferService) ConvertOpportunity(ctx context.Context, actor Actor, opportunityID string) (*model.Offer, error) {
	var offer model.Offer

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var opp model.Opportunity
		if err := tx.First(&opp, "id = ?", opportunityID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("opportunity %s: %w", opportunityID, ErrNotFound)
			}
			return err
		}
		if opp.Stage == model.OpportunityConverted {
			return fmt.Errorf("%w: opportunity is already converted", ErrValidation)
		}

		offer = model.Offer{
			ID:            uuid.New().String(),
			Code:          model.GenerateCode("offer"),
			OpportunityID: opp.ID,
			Summary:       opp.Notes,
			Status:        model.OfferDraft,
			CreatedByID:   actor.ID,
		}
		if err := tx.Create(&offer).Error; err != nil {
			return err
		}

		return tx.Model(&model.Opportunity{}).
			Where("id = ?", opp.ID).
			Update("stage", model.OpportunityConverted).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "opportunity converted to offer",
		"opportunity_id", opportunityID,
		"offer_id", offer.ID,
	)
	return &offer, nil
}
