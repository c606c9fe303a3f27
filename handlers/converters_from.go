package handlers

import (
	"myusers/domain"
)

// fromNewUser converts the request body to the raw registration payload. Validation happens in the service.
func fromNewUser(req NewUser) domain.RegistrationPayload {
	return domain.RegistrationPayload{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}
}
