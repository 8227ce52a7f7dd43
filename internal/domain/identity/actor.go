package identity

// Actor is the authenticated caller of an application service
type Actor struct {
	UserID uint64
	Email  string
	Role   Role
}

// ActorOf builds the actor for u
func ActorOf(u *User) Actor {
	return Actor{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// IsAdmin reports whether the caller has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the caller may modify the account with the given id
func (a Actor) CanManage(userID uint64) bool {
	return a.IsAdmin() || (a.UserID != 0 && a.UserID == userID)
}
