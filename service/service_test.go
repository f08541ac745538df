package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gyan-sharma/gs7crm-backend/model"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role model.UserRole) *model.User {
	t.Helper()

	user := &model.User{
		ID:     uuid.New().String(),
		Code:   model.GenerateCode("user"),
		Name:   "Test " + string(role),
		Email:  uuid.New().String() + "@gs7crm.local",
		Role:   role,
		Active: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestOffer(t *testing.T, db *gorm.DB, status model.OfferStatus) *model.Offer {
	t.Helper()

	customer := &model.Customer{ID: uuid.New().String(), Name: "ACME"}
	require.NoError(t, db.Create(customer).Error)

	opp := &model.Opportunity{
		ID:         uuid.New().String(),
		Name:       "ACME rollout",
		CustomerID: customer.ID,
		Stage:      model.OpportunityConverted,
	}
	require.NoError(t, db.Create(opp).Error)

	offer := &model.Offer{
		ID:            uuid.New().String(),
		Code:          model.GenerateCode("offer"),
		OpportunityID: opp.ID,
		Summary:       "<p>Proposal</p>",
		Status:        status,
	}
	require.NoError(t, db.Create(offer).Error)
	return offer
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
