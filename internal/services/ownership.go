package services

import "github.com/justsurfingit/devjobs/internal/models"

// IsOwner reports whether userID published the vacancy. A nil vacancy or an
// anonymous user is never an owner.
func IsOwner(vacancy *models.Vacancy, userID string) bool {
	if vacancy == nil || userID == "" {
		return false
	}
	return vacancy.Autor == userID
}
