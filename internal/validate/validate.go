package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"shopapi/internal/domain"
)

const (
	PasswordMin = 6
	PasswordMax = 20
	NameMax     = 50
	emailMax    = 254

	// bcrypt refuses longer input
	PasswordMaxBytes = 72

	DefaultTake = 20
	MaxTake     = 100
)

var reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > emailMax {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces the length window; character classes are not policed.
func Password(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= PasswordMin && n <= PasswordMax && len(s) <= PasswordMaxBytes
}

// Name validates an optional display name. Empty input is allowed.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, utf8.RuneCountInString(s) <= NameMax
}

// ID validates a resource identifier (UUID) and returns its canonical
// lowercase form.
func ID(s string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

type SignupInput struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	RoleID    *string `json:"roleId"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Signup checks a signup body and normalizes it in place.
func Signup(in *SignupInput) []domain.Violation {
	var vs []domain.Violation
	if email, ok := Email(in.Email); ok {
		in.Email = email
	} else {
		vs = append(vs, domain.Violation{Field: "email", Message: "must be a valid email address"})
	}
	switch {
	case len(in.Password) > PasswordMaxBytes:
		vs = append(vs, domain.Violation{Field: "password", Message: "must be at most 72 bytes"})
	case !Password(in.Password):
		vs = append(vs, domain.Violation{Field: "password", Message: "must be between 6 and 20 characters"})
	}
	vs = append(vs, optionalName("firstName", in.FirstName)...)
	vs = append(vs, optionalName("lastName", in.LastName)...)
	if in.RoleID != nil {
		if id, ok := ID(*in.RoleID); ok {
			in.RoleID = &id
		} else {
			vs = append(vs, domain.Violation{Field: "roleId", Message: "must be a role id"})
		}
	}
	return vs
}

func Login(in *LoginInput) []domain.Violation {
	var vs []domain.Violation
	if email, ok := Email(in.Email); ok {
		in.Email = email
	} else {
		vs = append(vs, domain.Violation{Field: "email", Message: "must be a valid email address"})
	}
	if in.Password == "" {
		vs = append(vs, domain.Violation{Field: "password", Message: "is required"})
	}
	return vs
}

func UpdateUser(in *UpdateUserInput) []domain.Violation {
	var vs []domain.Violation
	vs = append(vs, optionalName("firstName", in.FirstName)...)
	vs = append(vs, optionalName("lastName", in.LastName)...)
	return vs
}

func optionalName(field string, v *string) []domain.Violation {
	if v == nil {
		return nil
	}
	name, ok := Name(*v)
	if !ok {
		return []domain.Violation{{Field: field, Message: "must be at most 50 characters"}}
	}
	*v = name
	return nil
}

// Page parses skip/take/orderBy query values. Empty values fall back to defaults
// and take is clamped to MaxTake.
func Page(skip, take, orderBy string) (domain.Page, []domain.Violation) {
	p := domain.Page{Skip: 0, Take: DefaultTake, OrderBy: domain.OrderCreatedDesc}
	var vs []domain.Violation
	if s := strings.TrimSpace(skip); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			vs = append(vs, domain.Violation{Field: "skip", Message: "must be a non-negative integer"})
		} else {
			p.Skip = n
		}
	}
	if s := strings.TrimSpace(take); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			vs = append(vs, domain.Violation{Field: "take", Message: "must be a positive integer"})
		} else {
			p.Take = min(n, MaxTake)
		}
	}
	if s := strings.TrimSpace(orderBy); s != "" {
		switch s {
		case domain.OrderCreatedDesc, domain.OrderCreatedAsc, domain.OrderEmailAsc, domain.OrderEmailDesc:
			p.OrderBy = s
		default:
			vs = append(vs, domain.Violation{Field: "orderBy", Message: "unsupported ordering"})
		}
	}
	return p, vs
}
