package service

import "github.com/gyan-sharma/gs7crm-backend/model"

// Actor is the authenticated identity performing an operation, carried
// explicitly instead of living in ambient session state.
type Actor struct {
	ID   string
	Role model.UserRole
}

// Admin reports whether the actor holds the admin role.
func (a Actor) Admin() bool {
	return a.Role == model.RoleAdmin
}
