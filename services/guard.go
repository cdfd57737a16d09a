package services

import (
	"strings"

	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
)

// Guards run before a domain operation touches anything and return an
// Unauthorized AppError on failure.

func RequireRole(actor models.Actor, roles ...models.Role) error {
	if actor.Roles.HasAny(roles...) {
		return nil
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return utils.Unauthorized("requires role: %s", strings.Join(names, " or "))
}

func RequireAdmin(actor models.Actor) error {
	return RequireRole(actor, models.RoleAdmin)
}

func RequireOwner(actor models.Actor, ownerID, message string) error {
	if actor.UserID != "" && actor.UserID == ownerID {
		return nil
	}
	return utils.Unauthorized("%s", message)
}

func RequireOwnerOrAdmin(actor models.Actor, ownerID, message string) error {
	if actor.IsAdmin() {
		return nil
	}
	return RequireOwner(actor, ownerID, message)
}
