package entities

// User is the moderator account profile.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
}
