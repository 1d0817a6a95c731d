package handler

import (
	"net/http"
	"strconv"
	"time"

	"mafia/backend/internal/game"
	"mafia/backend/internal/models"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// region --- DTOs ---

type CreateRoomInput struct {
	MafiaCount  int `json:"mafia_count" binding:"required,min=1"`
	PlayerCount int `json:"player_count" binding:"required,min=2"`
}

type JoinRoomInput struct {
	Code   string        `json:"code" binding:"required"`
	Secret string        `json:"secret"`
	Name   string        `json:"name" binding:"required"`
	Photo  string        `json:"photo"`
	Age    int           `json:"age"`
	Gender models.Gender `json:"gender"`
}

type ReconnectInput struct {
	Code string `json:"code" binding:"required"`
}

type PlayerResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Alive bool   `json:"alive"`
}

type StageResponse struct {
	ID                uint `json:"id"`
	Number            int  `json:"number"`
	NightStarted      bool `json:"night_started"`
	MafiaActed        bool `json:"mafia_acted"`
	DoctorActed       bool `json:"doctor_acted"`
	SeductressActed   bool `json:"seductress_acted"`
	InvestigatorActed bool `json:"investigator_acted"`
	DayStarted        bool `json:"day_started"`
	DayExecuted       bool `json:"day_executed"`
}

type RoomResponse struct {
	ID           uint              `json:"id"`
	Code         string            `json:"code"`
	Secret       string            `json:"secret,omitempty"`
	Status       models.RoomStatus `json:"status"`
	MafiaCount   int               `json:"mafia_count"`
	PlayerCount  int               `json:"player_count"`
	CurrentCount int               `json:"current_count"`
	CurrentStage int               `json:"current_stage"`
	CreatedAt    time.Time         `json:"created_at"`
	EndedAt      *time.Time        `json:"ended_at,omitempty"`
	Players      []PlayerResponse  `json:"players"`
	Stages       []StageResponse   `json:"stages"`
}

func newRoomResponse(room models.Room, withSecret bool) RoomResponse {
	resp := RoomResponse{
		ID:           room.ID,
		Code:         room.Code,
		Status:       room.Status,
		MafiaCount:   room.MafiaCount,
		PlayerCount:  room.PlayerCount,
		CurrentCount: room.CurrentCount,
		CurrentStage: room.CurrentStage,
		CreatedAt:    room.CreatedAt,
		EndedAt:      room.EndedAt,
	}
	if withSecret {
		resp.Secret = room.Secret
	}
	for _, p := range room.Players {
		resp.Players = append(resp.Players, PlayerResponse{
			ID:    p.ID,
			Name:  p.Name,
			Photo: p.Photo,
			Alive: p.Alive,
		})
	}
	for _, s := range room.Stages {
		resp.Stages = append(resp.Stages, StageResponse{
			ID:                s.ID,
			Number:            s.Number,
			NightStarted:      s.NightStarted,
			MafiaActed:        s.MafiaActed,
			DoctorActed:       s.DoctorActed,
			SeductressActed:   s.SeductressActed,
			InvestigatorActed: s.InvestigatorActed,
			DayStarted:        s.DayStarted,
			DayExecuted:       s.DayExecuted,
		})
	}
	return resp
}

// endregion

// RoomHandler serves the room registry operations.
type RoomHandler struct {
	service *game.Service
}

func NewRoomHandler(service *game.Service) *RoomHandler {
	return &RoomHandler{service: service}
}

// CreateRoom godoc
// @Summary      Create a new room
// @Description  Creates a game room with a fresh join code and secret.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreateRoomInput true "Room Config"
// @Success      201  {object}  RoomResponse
// @Failure      400  {object}  ErrorResponse "mafia count must be below player count"
// @Router       /rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.service.CreateRoom(userID.(uint), input.MafiaCount, input.PlayerCount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRoomResponse(*room, true))
}

// ListRooms godoc
// @Summary      List rooms
// @Description  Gets a paginated list of rooms with their players and stages.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[RoomResponse]
// @Router       /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rooms, total, err := h.service.ListRooms(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, newRoomResponse(room, false))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

// JoinRoom godoc
// @Summary      Join a room
// @Description  Seats the caller in the room identified by its join code.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body JoinRoomInput true "Join Info"
// @Success      200  {object}  PlayerResponse
// @Failure      403  {object}  ErrorResponse "Wrong room secret"
// @Failure      404  {object}  ErrorResponse "Room not found"
// @Failure      409  {object}  ErrorResponse "Room full or already started"
// @Router       /rooms/join [post]
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input JoinRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.service.RoomByCode(input.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	// The secret is optional; when supplied it has to match.
	if input.Secret != "" && input.Secret != room.Secret {
		c.JSON(http.StatusForbidden, gin.H{"error": "Wrong room secret"})
		return
	}

	player, err := h.service.JoinRoom(input.Code, game.PlayerInfo{
		UserID: userID.(uint),
		Name:   input.Name,
		Photo:  input.Photo,
		Age:    input.Age,
		Gender: input.Gender,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PlayerResponse{
		ID:    player.ID,
		Name:  player.Name,
		Photo: player.Photo,
		Alive: player.Alive,
	})
}

// Reconnect godoc
// @Summary      Reconnect to a room
// @Description  Returns the caller's existing seat in the room. Idempotent.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ReconnectInput true "Room Code"
// @Success      200  {object}  PlayerResponse
// @Failure      404  {object}  ErrorResponse "Room or seat not found"
// @Router       /rooms/reconnect [post]
func (h *RoomHandler) Reconnect(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input ReconnectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.service.Reconnect(userID.(uint), input.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PlayerResponse{
		ID:    player.ID,
		Name:  player.Name,
		Photo: player.Photo,
		Alive: player.Alive,
	})
}

// RoomQR godoc
// @Summary      Room join code as QR
// @Description  Renders the room's join code as a PNG QR image for sharing.
// @Tags         rooms
// @Produce      png
// @Param        code path string true "Room Code"
// @Success      200 {string} binary "PNG image"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /join/{code}/qr [get]
func (h *RoomHandler) RoomQR(c *gin.Context) {
	code := c.Param("code")

	room, err := h.service.RoomByCode(code)
	if err != nil {
		respondError(c, err)
		return
	}

	png, err := qrcode.Encode(room.Code, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// DisablePlayer godoc
// @Summary      Disable a player
// @Description  Marks a seat dead outside the normal elimination flow.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        playerID path int true "Player ID"
// @Success      200 {object} map[string]string "{"message": "Player disabled"}"
// @Failure      404 {object} ErrorResponse "Player not found"
// @Router       /rooms/players/{playerID}/disable [put]
func (h *RoomHandler) DisablePlayer(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("playerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player id"})
		return
	}

	if err := h.service.DisablePlayer(uint(playerID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Player disabled"})
}
