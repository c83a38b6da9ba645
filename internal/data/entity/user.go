package entity

type User struct {
	Base
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
	IsActive     bool   `db:"is_active"`
	Shipping     Shipping

	// Roles is loaded separately from user_roles; empty until the repository fills it.
	Roles []*Role
}

// Shipping holds optional delivery details a user keeps on their account.
type Shipping struct {
	Name       *string `db:"shipping_name"`
	Address    *string `db:"shipping_address"`
	City       *string `db:"shipping_city"`
	PostalCode *string `db:"shipping_postal_code"`
	Country    *string `db:"shipping_country"`
}

// Bindings returns the role bindings held by the user.
func (u *User) Bindings() []RoleBinding {
	bindings := make([]RoleBinding, 0, len(u.Roles))
	for _, role := range u.Roles {
		bindings = append(bindings, role.Binding())
	}
	return bindings
}
