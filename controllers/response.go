package controllers

import (
	"context"
	"errors"
	"net/http"

	"go-food-ordering/database"
	"go-food-ordering/logger"
	"go-food-ordering/middleware"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func respondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// internalError logs err under the failed operation and answers 500.
func internalError(c *gin.Context, log logger.Logger, operation string, err error) {
	log.Error("Failed to ", operation, ": ", err)
	c.Error(err)
	respondMessage(c, http.StatusInternalServerError, "Internal server error")
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// objectIDParam parses a path parameter; ok is false when it is missing or
// not a valid ObjectID.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// requireUser reads the caller's id, answering 400 when absent.
func requireUser(c *gin.Context) (primitive.ObjectID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusBadRequest, "User ID is required")
	}
	return userID, ok
}
