package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
)

// ReviewService owns the offer review workflow: request creation, per-reviewer
// decisions, resends and the audit history. Every multi-row write runs in a
// single transaction.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReviewRequestInput carries everything a "send for review" action
// provides.
type CreateReviewRequestInput struct {
	OfferID               string
	Details               string
	TechnicalReviewerIDs  []string
	CommercialReviewerIDs []string
	Documents             []model.DocumentMeta
}

// CreateRequest persists the review request, one pending review per selected
// reviewer, the attached documents, and moves the offer into review, all or
// nothing.
func (s *ReviewService) CreateRequest(ctx context.Context, actor Actor, in CreateReviewRequestInput) (*model.ReviewRequest, error) {
	if strings.TrimSpace(in.Details) == "" {
		return nil, fmt.Errorf("%w: request details are required", ErrValidation)
	}
	if len(in.TechnicalReviewerIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one technical reviewer is required", ErrValidation)
	}
	if len(in.CommercialReviewerIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one commercial reviewer is required", ErrValidation)
	}

	var request model.ReviewRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer model.Offer
		if err := tx.First(&offer, "id = ?", in.OfferID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("offer %s: %w", in.OfferID, ErrNotFound)
			}
			return err
		}

		if !offer.Status.CanTransition(model.OfferInReview) {
			return fmt.Errorf("offer is %s: %w", offer.Status, ErrInvalidTransition)
		}

		allReviewers := append(append([]string{}, in.TechnicalReviewerIDs...), in.CommercialReviewerIDs...)
		var reviewerCount int64
		if err := tx.Model(&model.User{}).
			Where("id IN ? AND active = ?", allReviewers, true).
			Count(&reviewerCount).Error; err != nil {
			return err
		}
		if int(reviewerCount) != len(uniqueStrings(allReviewers)) {
			return fmt.Errorf("%w: one or more reviewers do not exist or are inactive", ErrValidation)
		}

		request = model.ReviewRequest{
			ID:            uuid.New().String(),
			OfferID:       offer.ID,
			RequestedByID: actor.ID,
			Details:       in.Details,
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		reviews := make([]model.Review, 0, len(allReviewers))
		for _, reviewerID := range in.TechnicalReviewerIDs {
			reviews = append(reviews, model.Review{
				ID:         uuid.New().String(),
				RequestID:  request.ID,
				ReviewerID: reviewerID,
				Type:       model.ReviewTechnical,
				Status:     model.ReviewPending,
			})
		}
		for _, reviewerID := range in.CommercialReviewerIDs {
			reviews = append(reviews, model.Review{
				ID:         uuid.New().String(),
				RequestID:  request.ID,
				ReviewerID: reviewerID,
				Type:       model.ReviewCommercial,
				Status:     model.ReviewPending,
			})
		}
		if err := tx.Create(&reviews).Error; err != nil {
			return err
		}

		for _, meta := range in.Documents {
			doc := DocumentFromMeta(meta, model.DocContextReview, request.ID, actor.ID)
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.Offer{}).
			Where("id = ?", offer.ID).
			Update("status", model.OfferInReview).Error; err != nil {
			return err
		}

		request.Reviews = reviews
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "review request created",
		"request_id", request.ID,
		"offer_id", in.OfferID,
		"reviews", len(request.Reviews),
	)
	return &request, nil
}

// SubmitDecision records the assigned reviewer's (or an admin's) decision on
// a pending review and appends the history entry.
func (s *ReviewService) SubmitDecision(ctx context.Context, actor Actor, reviewID string, decision model.ReviewStatus, comments string) (*model.Review, error) {
	if !decision.Decision() {
		return nil, fmt.Errorf("%w: decision must be approved or needs_improvement", ErrValidation)
	}
	if strings.TrimSpace(comments) == "" {
		return nil, fmt.Errorf("%w: comments are required", ErrValidation)
	}

	var review model.Review

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
			}
			return err
		}

		if review.ReviewerID != actor.ID && !actor.Admin() {
			return ErrForbidden
		}
		if review.Status != model.ReviewPending {
			return ErrReviewNotPending
		}

		previous := review.Status
		review.Status = decision
		review.Comments = comments
		if err := tx.Model(&model.Review{}).
			Where("id = ?", review.ID).
			Updates(map[string]interface{}{
				"status":   decision,
				"comments": comments,
			}).Error; err != nil {
			return err
		}

		return appendHistory(tx, &review, previous, decision, comments, actor.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "review decision submitted",
		"review_id", review.ID,
		"decision", review.Status,
	)
	return &review, nil
}

// Resend re-opens a decided review for another round: the offer goes back to
// in_review, the review resets to pending with cleared comments, exactly one
// history entry records the prior status, and any new documents attach to the
// original request.
func (s *ReviewService) Resend(ctx context.Context, actor Actor, reviewID, message string, docs []model.DocumentMeta) (*model.Review, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: a message is required", ErrValidation)
	}

	var review model.Review

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
			}
			return err
		}
		if review.Status == model.ReviewPending {
			return ErrReviewPending
		}

		// Walk review -> request -> offer to move the offer back into review
		var request model.ReviewRequest
		if err := tx.First(&request, "id = ?", review.RequestID).Error; err != nil {
			return err
		}
		var offer model.Offer
		if err := tx.First(&offer, "id = ?", request.OfferID).Error; err != nil {
			return err
		}
		if offer.Status != model.OfferInReview {
			if !offer.Status.CanTransition(model.OfferInReview) {
				return fmt.Errorf("%s -> %s: %w", offer.Status, model.OfferInReview, ErrInvalidTransition)
			}
			if err := tx.Model(&model.Offer{}).
				Where("id = ?", offer.ID).
				Update("status", model.OfferInReview).Error; err != nil {
				return err
			}
		}

		previous := review.Status
		review.Status = model.ReviewPending
		review.Comments = ""
		if err := tx.Model(&model.Review{}).
			Where("id = ?", review.ID).
			Updates(map[string]interface{}{
				"status":   model.ReviewPending,
				"comments": "",
			}).Error; err != nil {
			return err
		}

		if err := appendHistory(tx, &review, previous, model.ReviewPending, message, actor.ID); err != nil {
			return err
		}

		for _, meta := range docs {
			doc := DocumentFromMeta(meta, model.DocContextReview, request.ID, actor.ID)
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "review resent", "review_id", review.ID)
	return &review, nil
}

// appendHistory writes the canonical audit row for a review status change.
func appendHistory(tx *gorm.DB, review *model.Review, previous, next model.ReviewStatus, comment, actorID string) error {
	entry := model.ReviewHistoryEntry{
		ID:             uuid.New().String(),
		ReviewID:       review.ID,
		PreviousStatus: previous,
		NewStatus:      next,
		Comment:        comment,
		ActorID:        actorID,
	}
	return tx.Create(&entry).Error
}

// RequestsForOffer returns the offer's review requests, newest first, with
// reviews, reviewers and documents loaded.
func (s *ReviewService) RequestsForOffer(ctx context.Context, offerID string) ([]model.ReviewRequest, error) {
	var requests []model.ReviewRequest
	err := s.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Preload("Reviews.Reviewer").
		Preload("Documents").
		Preload("RequestedBy").
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// HistoryForOffer returns the offer's full review audit trail, newest first.
func (s *ReviewService) HistoryForOffer(ctx context.Context, offerID string) ([]model.ReviewHistoryEntry, error) {
	reviewIDs := s.db.Model(&model.Review{}).
		Select("reviews.id").
		Joins("JOIN review_requests ON review_requests.id = reviews.request_id").
		Where("review_requests.offer_id = ?", offerID)

	var entries []model.ReviewHistoryEntry
	err := s.db.WithContext(ctx).
		Where("review_id IN (?)", reviewIDs).
		Preload("Actor").
		Preload("Review.Reviewer").
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ResendFeed returns the resend comments for a review: the history entries
// that reset it to pending, newest first.
// OfferIDForReview resolves the offer a review belongs to. Callers that stage
// attachments use it so every document for a request lands under the offer's
// folder.
func (s *ReviewService) OfferIDForReview(ctx context.Context, reviewID string) (string, error) {
	var review model.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
		}
		return "", err
	}
	var request model.ReviewRequest
	if err := s.db.WithContext(ctx).First(&request, "id = ?", review.RequestID).Error; err != nil {
		return "", err
	}
	return request.OfferID, nil
}

func (s *ReviewService) ResendFeed(ctx context.Context, reviewID string) ([]model.ReviewHistoryEntry, error) {
	var entries []model.ReviewHistoryEntry
	err := s.db.WithContext(ctx).
		Where("review_id = ? AND new_status = ?", reviewID, model.ReviewPending).
		Preload("Actor").
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// TrackProgress summarizes one review track.
type TrackProgress struct {
	Total            int  `json:"total"`
	Approved         int  `json:"approved"`
	NeedsImprovement int  `json:"needs_improvement"`
	Pending          int  `json:"pending"`
	Complete         bool `json:"complete"`
}

// ReviewProgress reports the state of both tracks. It is informational only;
// completing all reviews never auto-transitions the offer.
type ReviewProgress struct {
	Technical  TrackProgress `json:"technical"`
	Commercial TrackProgress `json:"commercial"`
}

// Progress computes per-track approval state over the offer's latest request.
func (s *ReviewService) Progress(ctx context.Context, offerID string) (*ReviewProgress, error) {
	requests, err := s.RequestsForOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("no review request for offer %s: %w", offerID, ErrNotFound)
	}

	progress := &ReviewProgress{}
	for _, review := range requests[0].Reviews {
		track := &progress.Technical
		if review.Type == model.ReviewCommercial {
			track = &progress.Commercial
		}
		track.Total++
		switch review.Status {
		case model.ReviewApproved:
			track.Approved++
		case model.ReviewNeedsImprovement:
			track.NeedsImprovement++
		default:
			track.Pending++
		}
	}
	progress.Technical.Complete = progress.Technical.Total > 0 && progress.Technical.Approved == progress.Technical.Total
	progress.Commercial.Complete = progress.Commercial.Total > 0 && progress.Commercial.Approved == progress.Commercial.Total
	return progress, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
