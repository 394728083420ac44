package domain

// User is an account able to sign in. Reviews reference it as author.
type User struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
}

// UserPatch lists the user fields a caller may change. Nil means untouched.
type UserPatch struct {
	Name     *string
	Username *string
	Email    *string
	Password *string
	Role     *Role
}
