package entity

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// User.ConfirmationCode holds a bcrypt hash of the last emailed code, nil
// until the first signup call. The code stays valid until the next signup
// overwrites it. There is no expiry or single-use flag.
type User struct {
	Base
	Username         string   `db:"username"`
	Email            string   `db:"email"`
	FirstName        *string  `db:"first_name"`
	LastName         *string  `db:"last_name"`
	Bio              *string  `db:"bio"`
	Role             UserRole `db:"role"`
	IsSuperuser      bool     `db:"is_superuser"`
	ConfirmationCode *string  `db:"confirmation_code"`
}

// IsStaff reports whether the user passes the admin gate.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

// IsModerator reports whether the user can edit other authors' content.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.IsStaff()
}
