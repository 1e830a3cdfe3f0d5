package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Actor maps the caller to the state-machine actor it acts as.
func (i Identity) Actor() Actor {
	if i.IsAdmin() {
		return ActorAdmin
	}
	return ActorCustomer
}

// CanAccess reports whether the caller owns the order or is an admin.
func (i Identity) CanAccess(o *Order) bool {
	return i.IsAdmin() || (i.UserID != "" && o.UserID == i.UserID)
}
