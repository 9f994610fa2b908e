package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "Admin"
	RoleSeller   = "Seller"
	RoleCustomer = "Customer"
)

// Role ids are derived from the role name so every deployment agrees on them
// without a lookup.
var (
	RoleAdminID    = roleID(RoleAdmin)
	RoleSellerID   = roleID(RoleSeller)
	RoleCustomerID = roleID(RoleCustomer)
)

func roleID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("shopapi/role/"+name)).String()
}

// Roles lists the seeded roles.
func Roles() []Role {
	return []Role{
		{ID: RoleAdminID, Name: RoleAdmin},
		{ID: RoleSellerID, Name: RoleSeller},
		{ID: RoleCustomerID, Name: RoleCustomer},
	}
}

type Role struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    *string   `db:"first_name"`
	LastName     *string   `db:"last_name"`
	IsActive     bool      `db:"is_active"`
	RoleID       string    `db:"role_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PublicUser is what a successful login hands back next to the token.
type PublicUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	RoleID    string  `json:"roleId"`
}

// UserView is the profile representation served by the users endpoints and
// returned from signup.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	RoleID    string    `json:"roleId"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		RoleID:    u.RoleID,
	}
}

func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		RoleID:    u.RoleID,
	}
}

func Views(users []User) []UserView {
	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, users[i].View())
	}
	return out
}

// Orderings accepted by user listings.
const (
	OrderCreatedDesc = "createdAt:desc"
	OrderCreatedAsc  = "createdAt:asc"
	OrderEmailAsc    = "email:asc"
	OrderEmailDesc   = "email:desc"
)

type Page struct {
	Skip    int
	Take    int
	OrderBy string
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	RoleID string
}

func (a Actor) IsAdmin() bool { return a.RoleID == RoleAdminID }

// CanManage reports whether the actor may modify the given user's account.
func (a Actor) CanManage(userID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == userID)
}
