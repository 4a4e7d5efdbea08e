package services

import "runclub-api/models"

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanManage reports whether the actor may modify the given user's record.
func (a Actor) CanManage(userID string) bool {
	return a.IsAdmin() || a.ID == userID
}
