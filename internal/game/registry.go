package game

import (
	"errors"

	"mafia/backend/internal/models"

	"gorm.io/gorm"
)

const (
	codeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength = 8

	// Collision retries before giving up on code generation.
	maxCodeAttempts = 10
)

// PlayerInfo is the seat profile supplied on join.
type PlayerInfo struct {
	UserID uint
	Name   string
	Photo  string
	Age    int
	Gender models.Gender
}

func (s *Service) randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeChars[s.intn(len(codeChars))]
	}
	return string(b)
}

// CreateRoom registers a new room owned by ownerID with an unguessable,
// collision-checked join code and secret.
func (s *Service) CreateRoom(ownerID uint, mafiaCount, playerCount int) (*models.Room, error) {
	if mafiaCount <= 0 || playerCount <= 0 || mafiaCount >= playerCount {
		return nil, ErrInvalidConfig
	}

	room := &models.Room{
		OwnerID:      ownerID,
		Secret:       s.randomCode(),
		Status:       models.StatusNotStarted,
		MafiaCount:   mafiaCount,
		PlayerCount:  playerCount,
		CurrentCount: 0,
		CurrentStage: 1,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for attempt := 0; ; attempt++ {
			if attempt == maxCodeAttempts {
				return errors.New("could not generate a unique room code")
			}
			code := s.randomCode()

			// The schema keeps codes globally unique, finished rooms
			// included, so the check has to span every room.
			var taken int64
			err := tx.Model(&models.Room{}).
				Where("code = ?", code).
				Count(&taken).Error
			if err != nil {
				return err
			}
			if taken == 0 {
				room.Code = code
				break
			}
		}
		return tx.Create(room).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// RoomByCode loads a room by its join code.
func (s *Service) RoomByCode(code string) (*models.Room, error) {
	return loadRoomByCode(s.db, code)
}

// JoinRoom seats a new player in the room identified by code. Joining twice
// with the same user returns the existing seat instead of creating a
// duplicate.
func (s *Service) JoinRoom(code string, info PlayerInfo) (*models.Player, error) {
	room, err := loadRoomByCode(s.db, code)
	if err != nil {
		return nil, err
	}

	mu := s.roomLock(room.ID)
	mu.Lock()
	player, notes, err := s.joinRoom(room.ID, info)
	mu.Unlock()

	if err != nil {
		return nil, err
	}
	s.dispatch(notes)
	return player, nil
}

func (s *Service) joinRoom(roomID uint, info PlayerInfo) (*models.Player, []notification, error) {
	var player *models.Player
	var notes []notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		room, err := loadRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.Status.Terminal() {
			return ErrGameEnded
		}
		if room.Status != models.StatusNotStarted {
			return ErrRoomAlreadyStarted
		}

		// Same user joining again gets their seat back.
		var existing models.Player
		err = tx.Where("room_id = ? AND user_id = ?", room.ID, info.UserID).First(&existing).Error
		if err == nil {
			player = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if room.CurrentCount >= room.PlayerCount {
			return ErrRoomFull
		}

		player = &models.Player{
			RoomID: room.ID,
			UserID: info.UserID,
			Name:   info.Name,
			Photo:  info.Photo,
			Age:    info.Age,
			Gender: info.Gender,
			Role:   models.RoleUnassigned,
			Alive:  true,
		}
		if err := tx.Create(player).Error; err != nil {
			return err
		}

		room.CurrentCount++
		if err := tx.Model(room).Update("current_count", room.CurrentCount).Error; err != nil {
			return err
		}

		notes = append(notes, roomNote(room.Code, EventUserJoined, player.Name))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return player, notes, nil
}

// Reconnect returns the seat a user already holds in the room identified by
// code. It is idempotent: calling it any number of times yields the same seat
// and never creates a new one.
func (s *Service) Reconnect(userID uint, code string) (*models.Player, error) {
	room, err := loadRoomByCode(s.db, code)
	if err != nil {
		return nil, err
	}

	var player models.Player
	err = s.db.Where("room_id = ? AND user_id = ?", room.ID, userID).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	s.dispatch([]notification{roomNote(room.Code, EventUserReconnected, player.Name)})
	return &player, nil
}

// ListRooms is a read-only paginated projection of all rooms.
func (s *Service) ListRooms(page, size int) ([]models.Room, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	var total int64
	if err := s.db.Model(&models.Room{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []models.Room
	err := s.db.Preload("Players").Preload("Stages").
		Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rooms).Error
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// DisablePlayer marks a seat dead outside the normal elimination flow, e.g.
// when the owner removes a misbehaving participant. The seat row survives.
func (s *Service) DisablePlayer(playerID uint) error {
	var player models.Player
	err := s.db.Preload("Room").First(&player, playerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	if player.Room.Status.Terminal() {
		return ErrGameEnded
	}

	mu := s.roomLock(player.RoomID)
	mu.Lock()
	err = s.db.Model(&player).Update("alive", false).Error
	mu.Unlock()
	if err != nil {
		return err
	}

	s.dispatch([]notification{roomNote(player.Room.Code, EventPlayerDisabled, player.Name)})
	return nil
}
