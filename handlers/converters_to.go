package handlers

import (
	"myusers/domain"
)

// toUser converts the public fields of a domain user to the API response.
func toUser(u domain.PublicUser) User {
	return User{
		Email: u.Email,
		Name:  u.Name,
	}
}
