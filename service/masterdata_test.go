package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyan-sharma/gs7crm-backend/model"
)

func TestPartnerCRUD(t *testing.T) {
	svc := NewMasterDataService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.CreatePartner(ctx, PartnerInput{Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	partner, err := svc.CreatePartner(ctx, PartnerInput{Name: "Acme Integration", ContactEmail: "hello@acme.example"})
	require.NoError(t, err)

	updated, err := svc.UpdatePartner(ctx, partner.ID, PartnerInput{Name: "Acme Integrations", Phone: "+49 30 1234"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Integrations", updated.Name)
	assert.Equal(t, "+49 30 1234", updated.Phone)

	partners, err := svc.ListPartners(ctx)
	require.NoError(t, err)
	require.Len(t, partners, 1)

	require.NoError(t, svc.DeletePartner(ctx, partner.ID))
	_, err = svc.GetPartner(ctx, partner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPartnerDeleteBlockedByDocuments(t *testing.T) {
	db := newTestDB(t)
	svc := NewMasterDataService(db)
	ctx := context.Background()

	partner, err := svc.CreatePartner(ctx, PartnerInput{Name: "Acme"})
	require.NoError(t, err)

	doc := DocumentFromMeta(model.DocumentMeta{
		Name: "msa.pdf", StoragePath: "x/1-msa.pdf", MIMEType: "application/pdf", Size: 10,
	}, model.DocContextPartner, partner.ID, "uploader")
	require.NoError(t, db.Create(&doc).Error)

	assert.ErrorIs(t, svc.DeletePartner(ctx, partner.ID), ErrValidation)
}

func TestCustomerDeleteBlockedByOpportunities(t *testing.T) {
	svc := NewMasterDataService(newTestDB(t))
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Globex"})
	require.NoError(t, err)

	_, err = svc.CreateOpportunity(ctx, Actor{ID: "owner"}, OpportunityInput{
		Name: "Globex rollout", CustomerID: customer.ID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteCustomer(ctx, customer.ID), ErrValidation)
}

func TestOpportunityStage(t *testing.T) {
	svc := NewMasterDataService(newTestDB(t))
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Globex"})
	require.NoError(t, err)
	opp, err := svc.CreateOpportunity(ctx, Actor{ID: "owner"}, OpportunityInput{
		Name: "Globex rollout", CustomerID: customer.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OpportunityOpen, opp.Stage)

	qualified, err := svc.SetOpportunityStage(ctx, opp.ID, model.OpportunityQualified)
	require.NoError(t, err)
	assert.Equal(t, model.OpportunityQualified, qualified.Stage)

	// Conversion is reserved for the offer-creation flow
	_, err = svc.SetOpportunityStage(ctx, opp.ID, model.OpportunityConverted)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetOpportunityStage(ctx, opp.ID, "bogus")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOpportunityLockedAfterConversion(t *testing.T) {
	db := newTestDB(t)
	svc := NewMasterDataService(db)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Globex"})
	require.NoError(t, err)
	opp, err := svc.CreateOpportunity(ctx, Actor{ID: "owner"}, OpportunityInput{
		Name: "Globex rollout", CustomerID: customer.ID,
	})
	require.NoError(t, err)

	offers := NewOfferService(db)
	_, err = offers.ConvertOpportunity(ctx, Actor{ID: "owner", Role: model.RoleSales}, opp.ID)
	require.NoError(t, err)

	_, err = svc.UpdateOpportunity(ctx, opp.ID, OpportunityInput{Name: "Renamed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.SetOpportunityStage(ctx, opp.ID, model.OpportunityDropped)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProjectRequiresActiveContract(t *testing.T) {
	db := newTestDB(t)
	svc := NewMasterDataService(db)
	ctx := context.Background()

	offer := createTestOffer(t, db, model.OfferWon)
	contracts := NewContractService(db)
	contract, err := contracts.CreateFromOffer(ctx, Actor{ID: "creator", Role: model.RoleSales}, CreateContractInput{
		OfferID: offer.ID, Summary: "terms", PaymentTerms: "net 30", StartDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.CreateProject(ctx, ProjectInput{
		Name: "Rollout", ContractID: contract.ID, StartDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = contracts.Transition(ctx, Actor{ID: "creator", Role: model.RoleSales}, contract.ID, model.ContractActive)
	require.NoError(t, err)

	project, err := svc.CreateProject(ctx, ProjectInput{
		Name: "Rollout", ContractID: contract.ID, StartDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "planned", project.Status)
}

func TestMilestones(t *testing.T) {
	db := newTestDB(t)
	svc := NewMasterDataService(db)
	ctx := context.Background()

	offer := createTestOffer(t, db, model.OfferWon)
	contracts := NewContractService(db)
	contract, err := contracts.CreateFromOffer(ctx, Actor{ID: "creator", Role: model.RoleSales}, CreateContractInput{
		OfferID: offer.ID, Summary: "terms", PaymentTerms: "net 30", StartDate: time.Now(),
	})
	require.NoError(t, err)
	_, err = contracts.Transition(ctx, Actor{ID: "creator", Role: model.RoleSales}, contract.ID, model.ContractActive)
	require.NoError(t, err)

	project, err := svc.CreateProject(ctx, ProjectInput{Name: "Rollout", ContractID: contract.ID, StartDate: time.Now()})
	require.NoError(t, err)

	ms, err := svc.AddMilestone(ctx, project.ID, MilestoneInput{Name: "Kickoff", DueDate: time.Now().AddDate(0, 0, 14)})
	require.NoError(t, err)
	assert.Nil(t, ms.DoneAt)

	done, err := svc.CompleteMilestone(ctx, ms.ID)
	require.NoError(t, err)
	require.NotNil(t, done.DoneAt)

	first := *done.DoneAt
	again, err := svc.CompleteMilestone(ctx, ms.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Unix(), again.DoneAt.Unix())
}

func TestLicensePriceCRUD(t *testing.T) {
	svc := NewMasterDataService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.CreateLicensePrice(ctx, LicensePriceInput{Product: "GS7", LicenseType: "per-seat", UnitPrice: -1})
	assert.ErrorIs(t, err, ErrValidation)

	price, err := svc.CreateLicensePrice(ctx, LicensePriceInput{
		Product: "GS7", LicenseType: "per-seat", UnitPrice: 49.5, Currency: "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", price.Currency)

	updated, err := svc.UpdateLicensePrice(ctx, price.ID, LicensePriceInput{
		Product: "GS7", LicenseType: "per-seat", UnitPrice: 55,
	})
	require.NoError(t, err)
	assert.Equal(t, 55.0, updated.UnitPrice)

	require.NoError(t, svc.DeleteLicensePrice(ctx, price.ID))
	prices, err := svc.ListLicensePrices(ctx)
	require.NoError(t, err)
	assert.Empty(t, prices)
}
