package domain

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Identity resolves who the current request acts as: an authenticated
// user, or a guest known only by an anonymous id.
type Identity struct {
	User        *User
	Token       string
	AnonymousID string
}

// Namespace is the storage partition key all per-shopper snapshots
// (cart, coupon, preferences) live under.
func (id Identity) Namespace() string {
	if id.User != nil && id.User.ID != "" {
		return "user:" + id.User.ID
	}
	return "guest:" + id.AnonymousID
}

// Authenticated reports whether the identity is bound to a user.
func (id Identity) Authenticated() bool {
	return id.User != nil && id.User.ID != ""
}
