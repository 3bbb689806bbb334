package domain

// User represents a user record including the password hash, so the Logic
// layer can verify credentials. It must never be serialized to a caller —
// every read path returns the Public projection instead.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

// PublicUser is the caller-visible projection of a User. It is the single
// place the password hash is stripped, so the invariant holds for every
// read path that goes through it.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public returns the user without credential material.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// UserFromRow decodes a users-table row into a User.
func UserFromRow(r Row) User {
	return User{
		ID:           r.String("id"),
		Email:        r.String("email"),
		PasswordHash: r.String("password_hash"),
	}
}

// CredentialsRequest carries the email/password pair for both login and
// registration.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is a partial user patch. Nil fields are absent and
// skipped; present fields are applied.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// AuthResponse is returned on successful login.
type AuthResponse struct {
	Token  string `json:"access_token"`
	UserID string `json:"user_id"`
	Email  string `json:"user_email"`
}

// DeleteResponse confirms a completed delete.
type DeleteResponse struct {
	Message string `json:"message"`
}
