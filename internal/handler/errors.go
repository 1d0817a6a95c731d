package handler

import (
	"errors"
	"log"
	"net/http"

	"mafia/backend/internal/game"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondError translates game-core errors into HTTP statuses. Anything
// outside the taxonomy is an internal fault: logged, reported as 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrRoomNotFound),
		errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrStageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrInvalidConfig):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrInvalidTransition),
		errors.Is(err, game.ErrRoomFull),
		errors.Is(err, game.ErrRoomAlreadyStarted),
		errors.Is(err, game.ErrRoomNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrGameEnded):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
