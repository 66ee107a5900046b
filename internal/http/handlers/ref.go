package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/listora/listora-backend/internal/domain"
)

// parseEntityRef reads the :type/:id pair every entity-scoped route carries.
func parseEntityRef(c *gin.Context) (types.EntityRef, error) {
	entityType, err := types.ParseEntityType(c.Param("type"))
	if err != nil {
		return types.EntityRef{}, err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		return types.EntityRef{}, fmt.Errorf("invalid entity id %q", c.Param("id"))
	}
	return types.EntityRef{Type: entityType, ID: id}, nil
}
