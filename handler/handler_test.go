package handler

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := service.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, users *service.UserService, role model.UserRole, password string) *model.User {
	t.Helper()

	user, err := users.Create(context.Background(), service.CreateUserInput{
		Name:     "Test " + string(role),
		Email:    string(role) + "-" + uuid.New().String()[:8] + "@gs7crm.local",
		Role:     role,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func createOffer(t *testing.T, db *gorm.DB, status model.OfferStatus) *model.Offer {
	t.Helper()

	customer := &model.Customer{ID: uuid.New().String(), Name: "ACME"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("Failed to create customer: %v", err)
	}
	opp := &model.Opportunity{
		ID:         uuid.New().String(),
		Name:       "ACME rollout",
		CustomerID: customer.ID,
		Stage:      model.OpportunityConverted,
	}
	if err := db.Create(opp).Error; err != nil {
		t.Fatalf("Failed to create opportunity: %v", err)
	}
	offer := &model.Offer{
		ID:            uuid.New().String(),
		Code:          model.GenerateCode("offer"),
		OpportunityID: opp.ID,
		Summary:       "<p>Proposal</p>",
		Status:        status,
	}
	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("Failed to create offer: %v", err)
	}
	return offer
}

// asUser wires the gin context keys the auth middleware would set.
func asUser(user *model.User, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Set("user_email", user.Email)
		c.Set("user_role", string(user.Role))
		h(c)
	}
}
