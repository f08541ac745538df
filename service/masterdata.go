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

// MasterDataService owns the supporting entities around the offer pipeline:
// partners, customers, opportunities, projects with milestones, and license
// pricing.
type MasterDataService struct {
	db *gorm.DB
}

func NewMasterDataService(db *gorm.DB) *MasterDataService {
	return &MasterDataService{db: db}
}

func (s *MasterDataService) getByID(ctx context.Context, dest interface{}, kind, id string) error {
	err := s.db.WithContext(ctx).First(dest, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return err
}

// Partners

type PartnerInput struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
	Notes        string `json:"notes"`
}

func (s *MasterDataService) CreatePartner(ctx context.Context, in PartnerInput) (*model.Partner, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: partner name is required", ErrValidation)
	}
	partner := model.Partner{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		Phone:        in.Phone,
		Notes:        in.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (s *MasterDataService) ListPartners(ctx context.Context) ([]model.Partner, error) {
	var partners []model.Partner
	err := s.db.WithContext(ctx).Order("name").Find(&partners).Error
	return partners, err
}

func (s *MasterDataService) GetPartner(ctx context.Context, id string) (*model.Partner, error) {
	var partner model.Partner
	err := s.db.WithContext(ctx).Preload("Documents").First(&partner, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("partner %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (s *MasterDataService) UpdatePartner(ctx context.Context, id string, in PartnerInput) (*model.Partner, error) {
	var partner model.Partner
	if err := s.getByID(ctx, &partner, "partner", id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: partner name is required", ErrValidation)
	}

	partner.Name = strings.TrimSpace(in.Name)
	partner.ContactName = in.ContactName
	partner.ContactEmail = in.ContactEmail
	partner.Phone = in.Phone
	partner.Notes = in.Notes
	if err := s.db.WithContext(ctx).Save(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// DeletePartner removes the partner row. Attached documents stay in object
// storage and must be deleted through the document routes first.
func (s *MasterDataService) DeletePartner(ctx context.Context, id string) error {
	var partner model.Partner
	if err := s.getByID(ctx, &partner, "partner", id); err != nil {
		return err
	}

	var docCount int64
	if err := s.db.WithContext(ctx).Model(&model.Document{}).
		Where("partner_id = ?", id).
		Count(&docCount).Error; err != nil {
		return err
	}
	if docCount > 0 {
		return fmt.Errorf("%w: partner has %d attached documents", ErrValidation, docCount)
	}
	return s.db.WithContext(ctx).Delete(&model.Partner{}, "id = ?", id).Error
}

// Customers

type CustomerInput struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
	Notes        string `json:"notes"`
}

func (s *MasterDataService) CreateCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	customer := model.Customer{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		Phone:        in.Phone,
		Notes:        in.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *MasterDataService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := s.db.WithContext(ctx).Order("name").Find(&customers).Error
	return customers, err
}

func (s *MasterDataService) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	if err := s.getByID(ctx, &customer, "customer", id); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *MasterDataService) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (*model.Customer, error) {
	var customer model.Customer
	if err := s.getByID(ctx, &customer, "customer", id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}

	customer.Name = strings.TrimSpace(in.Name)
	customer.ContactName = in.ContactName
	customer.ContactEmail = in.ContactEmail
	customer.Phone = in.Phone
	customer.Notes = in.Notes
	if err := s.db.WithContext(ctx).Save(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer refuses when opportunities still reference the customer.
func (s *MasterDataService) DeleteCustomer(ctx context.Context, id string) error {
	var customer model.Customer
	if err := s.getByID(ctx, &customer, "customer", id); err != nil {
		return err
	}

	var oppCount int64
	if err := s.db.WithContext(ctx).Model(&model.Opportunity{}).
		Where("customer_id = ?", id).
		Count(&oppCount).Error; err != nil {
		return err
	}
	if oppCount > 0 {
		return fmt.Errorf("%w: customer has %d opportunities", ErrValidation, oppCount)
	}
	return s.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id).Error
}

// Opportunities

type OpportunityInput struct {
	Name       string  `json:"name"`
	CustomerID string  `json:"customer_id"`
	PartnerID  *string `json:"partner_id"`
	Notes      string  `json:"notes"`
}

func (s *MasterDataService) CreateOpportunity(ctx context.Context, actor Actor, in OpportunityInput) (*model.Opportunity, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: opportunity name is required", ErrValidation)
	}

	var customer model.Customer
	if err := s.getByID(ctx, &customer, "customer", in.CustomerID); err != nil {
		return nil, err
	}
	if in.PartnerID != nil {
		var partner model.Partner
		if err := s.getByID(ctx, &partner, "partner", *in.PartnerID); err != nil {
			return nil, err
		}
	}

	opp := model.Opportunity{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(in.Name),
		CustomerID: in.CustomerID,
		PartnerID:  in.PartnerID,
		OwnerID:    actor.ID,
		Stage:      model.OpportunityOpen,
		Notes:      in.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&opp).Error; err != nil {
		return nil, err
	}
	logger.Info(ctx, "opportunity created", "opportunity_id", opp.ID, "customer_id", opp.CustomerID)
	return &opp, nil
}

func (s *MasterDataService) ListOpportunities(ctx context.Context) ([]model.Opportunity, error) {
	var opps []model.Opportunity
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC").
		Find(&opps).Error
	return opps, err
}

func (s *MasterDataService) GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error) {
	var opp model.Opportunity
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Documents").
		First(&opp, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("opportunity %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

func (s *MasterDataService) UpdateOpportunity(ctx context.Context, id string, in OpportunityInput) (*model.Opportunity, error) {
	var opp model.Opportunity
	if err := s.getByID(ctx, &opp, "opportunity", id); err != nil {
		return nil, err
	}
	if opp.Stage == model.OpportunityConverted {
		return nil, fmt.Errorf("opportunity is converted: %w", ErrInvalidTransition)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: opportunity name is required", ErrValidation)
	}

	opp.Name = strings.TrimSpace(in.Name)
	opp.Notes = in.Notes
	if in.PartnerID != nil {
		var partner model.Partner
		if err := s.getByID(ctx, &partner, "partner", *in.PartnerID); err != nil {
			return nil, err
		}
		opp.PartnerID = in.PartnerID
	}
	if err := s.db.WithContext(ctx).Save(&opp).Error; err != nil {
		return nil, err
	}
	return &opp, nil
}

// SetOpportunityStage moves the pipeline stage. Conversion happens only
// through OfferService.ConvertOpportunity, not here.
func (s *MasterDataService) SetOpportunityStage(ctx context.Context, id string, stage model.OpportunityStage) (*model.Opportunity, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrValidation, stage)
	}
	if stage == model.OpportunityConverted {
		return nil, fmt.Errorf("%w: conversion requires creating an offer", ErrValidation)
	}

	var opp model.Opportunity
	if err := s.getByID(ctx, &opp, "opportunity", id); err != nil {
		return nil, err
	}
	if opp.Stage == model.OpportunityConverted {
		return nil, fmt.Errorf("opportunity is converted: %w", ErrInvalidTransition)
	}

	opp.Stage = stage
	if err := s.db.WithContext(ctx).Save(&opp).Error; err != nil {
		return nil, err
	}
	return &opp, nil
}

// Projects and milestones

type ProjectInput struct {
	Name       string     `json:"name"`
	ContractID string     `json:"contract_id"`
	ManagerID  string     `json:"manager_id"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

func (s *MasterDataService) CreateProject(ctx context.Context, in ProjectInput) (*model.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrValidation)
	}

	var contract model.Contract
	if err := s.getByID(ctx, &contract, "contract", in.ContractID); err != nil {
		return nil, err
	}
	if contract.Status != model.ContractActive {
		return nil, fmt.Errorf("contract is %s: %w", contract.Status, ErrInvalidTransition)
	}

	project := model.Project{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(in.Name),
		ContractID: in.ContractID,
		ManagerID:  in.ManagerID,
		Status:     "planned",
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
	}
	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *MasterDataService) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).Preload("Milestones").Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (s *MasterDataService) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).Preload("Milestones").First(&project, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type MilestoneInput struct {
	Name    string    `json:"name"`
	DueDate time.Time `json:"due_date"`
}

func (s *MasterDataService) AddMilestone(ctx context.Context, projectID string, in MilestoneInput) (*model.Milestone, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: milestone name is required", ErrValidation)
	}

	var project model.Project
	if err := s.getByID(ctx, &project, "project", projectID); err != nil {
		return nil, err
	}

	milestone := model.Milestone{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(in.Name),
		DueDate:   in.DueDate,
	}
	if err := s.db.WithContext(ctx).Create(&milestone).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

// CompleteMilestone stamps the milestone done once; repeated calls keep the
// first timestamp.
func (s *MasterDataService) CompleteMilestone(ctx context.Context, id string) (*model.Milestone, error) {
	var milestone model.Milestone
	if err := s.getByID(ctx, &milestone, "milestone", id); err != nil {
		return nil, err
	}
	if milestone.DoneAt != nil {
		return &milestone, nil
	}

	now := time.Now()
	milestone.DoneAt = &now
	if err := s.db.WithContext(ctx).Save(&milestone).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

// License pricing

type LicensePriceInput struct {
	Product     string  `json:"product"`
	LicenseType string  `json:"license_type"`
	UnitPrice   float64 `json:"unit_price"`
	Currency    string  `json:"currency"`
}

func (s *MasterDataService) CreateLicensePrice(ctx context.Context, in LicensePriceInput) (*model.LicensePrice, error) {
	if strings.TrimSpace(in.Product) == "" || strings.TrimSpace(in.LicenseType) == "" {
		return nil, fmt.Errorf("%w: product and license type are required", ErrValidation)
	}
	if in.UnitPrice < 0 {
		return nil, fmt.Errorf("%w: unit price cannot be negative", ErrValidation)
	}

	price := model.LicensePrice{
		ID:          uuid.New().String(),
		Product:     strings.TrimSpace(in.Product),
		LicenseType: strings.TrimSpace(in.LicenseType),
		UnitPrice:   in.UnitPrice,
	}
	if c := strings.TrimSpace(in.Currency); c != "" {
		price.Currency = strings.ToUpper(c)
	}
	if err := s.db.WithContext(ctx).Create(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (s *MasterDataService) ListLicensePrices(ctx context.Context) ([]model.LicensePrice, error) {
	var prices []model.LicensePrice
	err := s.db.WithContext(ctx).Order("product, license_type").Find(&prices).Error
	return prices, err
}

func (s *MasterDataService) UpdateLicensePrice(ctx context.Context, id string, in LicensePriceInput) (*model.LicensePrice, error) {
	var price model.LicensePrice
	if err := s.getByID(ctx, &price, "license price", id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Product) == "" || strings.TrimSpace(in.LicenseType) == "" {
		return nil, fmt.Errorf("%w: product and license type are required", ErrValidation)
	}
	if in.UnitPrice < 0 {
		return nil, fmt.Errorf("%w: unit price cannot be negative", ErrValidation)
	}

	price.Product = strings.TrimSpace(in.Product)
	price.LicenseType = strings.TrimSpace(in.LicenseType)
	price.UnitPrice = in.UnitPrice
	if c := strings.TrimSpace(in.Currency); c != "" {
		price.Currency = strings.ToUpper(c)
	}
	if err := s.db.WithContext(ctx).Save(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (s *MasterDataService) DeleteLicensePrice(ctx context.Context, id string) error {
	var price model.LicensePrice
	if err := s.getByID(ctx, &price, "license price", id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&model.LicensePrice{}, "id = ?", id).Error
}
