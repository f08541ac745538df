package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
)

// ContractService converts won offers into contracts and manages the contract
// lifecycle.
type ContractService struct {
	db *gorm.DB
}

func NewContractService(db *gorm.DB) *ContractService {
	return &ContractService{db: db}
}

// CreateContractInput carries the fields required before a contract can be
// submitted.
type CreateContractInput struct {
	OfferID      string
	Summary      string
	PaymentTerms string
	StartDate    time.Time
	Documents    []model.DocumentMeta
}

// CreateFromOffer creates the contract for a won offer: total value is
// MRR x 12 plus one-time services, the code is generated, and at most one
// contract may exist per offer.
func (s *ContractService) CreateFromOffer(ctx context.Context, actor Actor, in CreateContractInput) (*model.Contract, error) {
	if strings.TrimSpace(in.Summary) == "" {
		return nil, fmt.Errorf("%w: summary is required", ErrValidation)
	}
	if strings.TrimSpace(in.PaymentTerms) == "" {
		return nil, fmt.Errorf("%w: payment terms are required", ErrValidation)
	}
	if in.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrValidation)
	}

	var contract model.Contract

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer model.Offer
		if err := tx.
			Preload("Environments.Components").
			Preload("ServiceSets.Services").
			First(&offer, "id = ?", in.OfferID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("offer %s: %w", in.OfferID, ErrNotFound)
			}
			return err
		}

		if offer.Status != model.OfferWon {
			return fmt.Errorf("%w: offer must be won, is %s", ErrValidation, offer.Status)
		}

		var existing int64
		if err := tx.Model(&model.Contract{}).
			Where("offer_id = ?", offer.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrContractExists
		}

		// Prefer the nested line items; fall back to the stored rollups when
		// the offer carries totals without itemization.
		mrr, oneTime := offer.RollupTotals()
		if mrr == 0 && oneTime == 0 {
			mrr, oneTime = offer.MRRTotal, offer.OneTimeServicesTotal
		}

		contract = model.Contract{
			ID:                 uuid.New().String(),
			Code:               model.GenerateCode("contract"),
			OfferID:            offer.ID,
			Summary:            in.Summary,
			TotalContractValue: model.ContractTotalValue(mrr, oneTime),
			PaymentTerms:       in.PaymentTerms,
			StartDate:          in.StartDate,
			Status:             model.ContractDraft,
			CreatedByID:        actor.ID,
		}
		if err := tx.Create(&contract).Error; err != nil {
			return err
		}

		for _, meta := range in.Documents {
			doc := DocumentFromMeta(meta, model.DocContextContract, contract.ID, actor.ID)
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "contract created",
		"contract_id", contract.ID,
		"code", contract.Code,
		"offer_id", in.OfferID,
		"total_value", contract.TotalContractValue,
	)
	return &contract, nil
}

func (s *ContractService) List(ctx context.Context) ([]model.Contract, error) {
	var contracts []model.Contract
	err := s.db.WithContext(ctx).
		Preload("Offer").
		Order("created_at DESC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (s *ContractService) Get(ctx context.Context, id string) (*model.Contract, error) {
	var contract model.Contract
	err := s.db.WithContext(ctx).
		Preload("Offer").
		Preload("CreatedBy").
		Preload("Documents").
		First(&contract, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("contract %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &contract, nil
}

// Transition moves the contract to the next status if the transition table
// allows it.
func (s *ContractService) Transition(ctx context.Context, actor Actor, id string, next model.ContractStatus) (*model.Contract, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}

	contract, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !contract.Status.CanTransition(next) {
		return nil, fmt.Errorf("%s -> %s: %w", contract.Status, next, ErrInvalidTransition)
	}

	if err := s.db.WithContext(ctx).Model(&model.Contract{}).
		Where("id = ?", contract.ID).
		Update("status", next).Error; err != nil {
		return nil, err
	}

	contract.Status = next
	return contract, nil
}
