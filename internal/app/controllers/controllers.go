package controllers

import (
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errUnauthenticated = apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Please log in to continue.")

// uuidParam reads a path parameter as a UUID
func uuidParam(ctx *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequestError("Invalid " + name + " format")
	}
	return id, nil
}
