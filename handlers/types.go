package handlers

// NewUser is the body of POST /create/user.
type NewUser struct {
	Email    *string `json:"email"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password"`
}

// User holds the public fields of a registered user.
type User struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}
