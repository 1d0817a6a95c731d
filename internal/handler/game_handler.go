package handler

import (
	"net/http"
	"strconv"

	"mafia/backend/internal/game"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type StageUpdateInput struct {
	Transition game.Transition `json:"transition" binding:"required"`
}

type VoteInput struct {
	PlayerID uint `json:"player_id" binding:"required"`
}

// endregion

// GameHandler serves the in-game operations: start, stage transitions, votes
// and status queries.
type GameHandler struct {
	service *game.Service
}

func NewGameHandler(service *game.Service) *GameHandler {
	return &GameHandler{service: service}
}

func roomID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
		return 0, false
	}
	return uint(id), true
}

// StartGame godoc
// @Summary      Start the game
// @Description  Deals role cards to all seated players and opens day 1.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]string "{"message": "Game started"}"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Room not ready"
// @Router       /rooms/{id}/start [post]
func (h *GameHandler) StartGame(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	if err := h.service.StartGame(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game started"})
}

// AdvanceStage godoc
// @Summary      Advance the room stage
// @Description  Drives the day/night state machine. The start_day transition
// @Description  resolves the night and returns the outcome with the win state.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int              true "Room ID"
// @Param        input body StageUpdateInput true "Transition"
// @Success      200 {object} game.DayBreak
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Invalid transition"
// @Failure      410 {object} ErrorResponse "Game has ended"
// @Router       /rooms/{id}/stage [post]
func (h *GameHandler) AdvanceStage(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	var input StageUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.AdvanceStage(id, input.Transition)
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Stage updated"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// MafiaVote godoc
// @Summary      Mafia night vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "Room ID"
// @Param        input body VoteInput true "Target"
// @Success      200 {object} map[string]string "{"message": "Vote recorded"}"
// @Failure      404 {object} ErrorResponse "Room or player not found"
// @Failure      409 {object} ErrorResponse "Not night time"
// @Router       /rooms/{id}/votes/mafia [post]
func (h *GameHandler) MafiaVote(c *gin.Context) {
	h.vote(c, h.service.MafiaVote)
}

// DoctorVote godoc
// @Summary      Doctor night save
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "Room ID"
// @Param        input body VoteInput true "Target"
// @Success      200 {object} map[string]string "{"message": "Vote recorded"}"
// @Failure      404 {object} ErrorResponse "Room or player not found"
// @Failure      409 {object} ErrorResponse "Not night time"
// @Router       /rooms/{id}/votes/doctor [post]
func (h *GameHandler) DoctorVote(c *gin.Context) {
	h.vote(c, h.service.DoctorVote)
}

// SeductressVote godoc
// @Summary      Seductress night block
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "Room ID"
// @Param        input body VoteInput true "Target"
// @Success      200 {object} map[string]string "{"message": "Vote recorded"}"
// @Failure      404 {object} ErrorResponse "Room or player not found"
// @Failure      409 {object} ErrorResponse "Not night time"
// @Router       /rooms/{id}/votes/seductress [post]
func (h *GameHandler) SeductressVote(c *gin.Context) {
	h.vote(c, h.service.SeductressVote)
}

// InvestigatorVote godoc
// @Summary      Investigator night check
// @Description  Marks the checked player; the result goes privately to the investigator.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "Room ID"
// @Param        input body VoteInput true "Target"
// @Success      200 {object} map[string]string "{"message": "Vote recorded"}"
// @Failure      404 {object} ErrorResponse "Room or player not found"
// @Failure      409 {object} ErrorResponse "Not night time"
// @Router       /rooms/{id}/votes/investigator [post]
func (h *GameHandler) InvestigatorVote(c *gin.Context) {
	h.vote(c, h.service.InvestigatorVote)
}

// DayVote godoc
// @Summary      Day accusation vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "Room ID"
// @Param        input body VoteInput true "Target"
// @Success      200 {object} map[string]string "{"message": "Vote recorded"}"
// @Failure      404 {object} ErrorResponse "Room or player not found"
// @Failure      409 {object} ErrorResponse "Not day time"
// @Router       /rooms/{id}/votes/day [post]
func (h *GameHandler) DayVote(c *gin.Context) {
	h.vote(c, h.service.DayVote)
}

func (h *GameHandler) vote(c *gin.Context, record func(roomID, targetPlayerID uint) error) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := record(id, input.PlayerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

// PlayerStatuses godoc
// @Summary      Player statuses with roles
// @Description  The game-master view: every seat with its assigned role.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {array} game.PlayerStatus
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id}/players [get]
func (h *GameHandler) PlayerStatuses(c *gin.Context) {
	userID, _ := c.Get("userID")
	id, ok := roomID(c)
	if !ok {
		return
	}

	statuses, err := h.service.PlayerStatuses(id, userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statuses)
}

// PlayerStatusesPublic godoc
// @Summary      Player statuses
// @Description  The participant view: seats and alive flags, roles concealed.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {array} game.PlayerStatus
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id}/players/public [get]
func (h *GameHandler) PlayerStatusesPublic(c *gin.Context) {
	userID, _ := c.Get("userID")
	id, ok := roomID(c)
	if !ok {
		return
	}

	statuses, err := h.service.PlayerStatusesPublic(id, userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statuses)
}

// EvaluateStatus godoc
// @Summary      Evaluate the win condition
// @Description  Executes the day vote and recomputes faction head-counts.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} game.GameStatus
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      410 {object} ErrorResponse "Game has ended"
// @Router       /rooms/{id}/status [post]
func (h *GameHandler) EvaluateStatus(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}

	status, err := h.service.EvaluateGameStatus(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
