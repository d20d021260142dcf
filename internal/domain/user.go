package domain

import "time"

// User is a registered account. UID is the external identity provider's id;
// ID is the internal id every owned document references.
type User struct {
	ID               string    `json:"id"`
	UID              string    `json:"uid"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"displayName"`
	Avatar           string    `json:"avatar"`
	Username         string    `json:"username"`
	Bio              string    `json:"bio"`
	InterestedGenres []string  `json:"interestedGenres"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	LastLoginAt      time.Time `json:"lastLoginAt"`
}

// Touch updates UpdatedAt.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// PublicProfile is the subset of a user shown to other users.
type PublicProfile struct {
	ID               string    `json:"id"`
	DisplayName      string    `json:"displayName"`
	Avatar           string    `json:"avatar"`
	Username         string    `json:"username"`
	Bio              string    `json:"bio"`
	InterestedGenres []string  `json:"interestedGenres"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Public strips private fields such as email and uid.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:               u.ID,
		DisplayName:      u.DisplayName,
		Avatar:           u.Avatar,
		Username:         u.Username,
		Bio:              u.Bio,
		InterestedGenres: u.InterestedGenres,
		CreatedAt:        u.CreatedAt,
	}
}

// Identity is the verified caller as asserted by the identity provider,
// before or after registration.
type Identity struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
