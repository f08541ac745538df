package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gyan-sharma/gs7crm-backend/model"
)

func TestUserCreate(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "  Ada Lovelace ",
		Email:    "Ada@GS7CRM.local",
		Role:     model.RoleTechnical,
		Password: "s3cret-pw",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@gs7crm.local", user.Email)
	assert.True(t, user.Active)
	assert.NotEmpty(t, user.Code)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pw")))
}

func TestUserCreateValidation(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	cases := []struct {
		name string
		in   CreateUserInput
	}{
		{"missing name", CreateUserInput{Email: "x@y.z", Role: model.RoleSales}},
		{"missing email", CreateUserInput{Name: "X", Role: model.RoleSales}},
		{"unknown role", CreateUserInput{Name: "X", Email: "x@y.z", Role: "wizard"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserCreateGeneratesPassword(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name: "Ada", Email: "ada@gs7crm.local", Role: model.RoleViewer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestUserListByRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	tech, err := svc.Create(ctx, CreateUserInput{Name: "Tech", Email: "tech@gs7crm.local", Role: model.RoleTechnical})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateUserInput{Name: "Sales", Email: "sales@gs7crm.local", Role: model.RoleSales})
	require.NoError(t, err)
	inactive, err := svc.Create(ctx, CreateUserInput{Name: "Gone", Email: "gone@gs7crm.local", Role: model.RoleTechnical})
	require.NoError(t, err)

	off := false
	_, err = svc.Update(ctx, inactive.ID, UpdateUserInput{Active: &off})
	require.NoError(t, err)

	users, err := svc.ListByRole(ctx, model.RoleTechnical)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, tech.ID, users[0].ID)
}

func TestUserUpdate(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "ada@gs7crm.local", Role: model.RoleViewer})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{Name: "Ada Lovelace", Role: model.RoleTechnical})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, model.RoleTechnical, updated.Role)

	_, err = svc.Update(ctx, user.ID, UpdateUserInput{Role: "wizard"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, "no-such-id", UpdateUserInput{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserSetPassword(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "ada@gs7crm.local", Role: model.RoleViewer, Password: "old-password"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetPassword(ctx, user.ID, "short"), ErrValidation)
	require.NoError(t, svc.SetPassword(ctx, user.ID, "new-password"))

	_, err = svc.Authenticate(ctx, user.Email, "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, user.Email, "new-password")
	assert.NoError(t, err)
}

func TestUserAuthenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "ada@gs7crm.local", Role: model.RoleSales, Password: "s3cret-pw"})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, " Ada@GS7CRM.local ", "s3cret-pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@gs7crm.local", "s3cret-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	off := false
	_, err = svc.Update(ctx, user.ID, UpdateUserInput{Active: &off})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, user.Email, "s3cret-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
