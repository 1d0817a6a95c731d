package game

import (
	"errors"

	"mafia/backend/internal/models"

	"gorm.io/gorm"
)

// MafiaVote records the mafia's chosen target for the current night. Repeated
// votes for the same target raise its running count, which breaks contested
// nights in favor of the most-voted player.
func (s *Service) MafiaVote(roomID, targetPlayerID uint) error {
	return s.nightAction(roomID, targetPlayerID, func(row *models.StagePlayer) {
		row.MafiaTarget = true
		row.MafiaVotes++
	}, nil)
}

// DoctorVote marks the player the doctor protects tonight.
func (s *Service) DoctorVote(roomID, targetPlayerID uint) error {
	return s.nightAction(roomID, targetPlayerID, func(row *models.StagePlayer) {
		row.DoctorPick = true
	}, nil)
}

// SeductressVote marks the player the seductress blocks tonight.
func (s *Service) SeductressVote(roomID, targetPlayerID uint) error {
	return s.nightAction(roomID, targetPlayerID, func(row *models.StagePlayer) {
		row.SeductressPick = true
	}, nil)
}

// InvestigatorVote marks the checked player and privately tells the
// investigator whether the target is mafia.
func (s *Service) InvestigatorVote(roomID, targetPlayerID uint) error {
	return s.nightAction(roomID, targetPlayerID, func(row *models.StagePlayer) {
		row.InvestigatorPick = true
	}, func(tx *gorm.DB, room *models.Room, target *models.Player) ([]notification, error) {
		var investigator models.Player
		err := tx.Where("room_id = ? AND role = ?", room.ID, models.RoleInvestigator).
			First(&investigator).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		result := map[string]any{
			"player_id": target.ID,
			"name":      target.Name,
			"is_mafia":  target.Role == models.RoleMafia,
		}
		return []notification{userNote(investigator.UserID, EventInvestigatorResult, result)}, nil
	})
}

// nightAction applies one concealed night mark to the target's vote row in
// the current stage. Submissions are fire-and-forget idempotent writes: the
// flags are monotonic, so a duplicate retry is indistinguishable from the
// first call.
func (s *Service) nightAction(roomID, targetPlayerID uint, mark func(*models.StagePlayer),
	after func(*gorm.DB, *models.Room, *models.Player) ([]notification, error)) error {

	mu := s.roomLock(roomID)
	mu.Lock()
	notes, err := s.applyVote(roomID, targetPlayerID, models.StatusNight, mark, after)
	mu.Unlock()

	if err != nil {
		return err
	}
	s.dispatch(notes)
	return nil
}

// DayVote records one accusation against the target during the day phase.
func (s *Service) DayVote(roomID, targetPlayerID uint) error {
	mu := s.roomLock(roomID)
	mu.Lock()
	notes, err := s.applyVote(roomID, targetPlayerID, models.StatusDay,
		func(row *models.StagePlayer) { row.DayVotes++ },
		func(tx *gorm.DB, room *models.Room, target *models.Player) ([]notification, error) {
			return []notification{roomNote(room.Code, EventPlayerVote, target.Name)}, nil
		})
	mu.Unlock()

	if err != nil {
		return err
	}
	s.dispatch(notes)
	return nil
}

func (s *Service) applyVote(roomID, targetPlayerID uint, phase models.RoomStatus,
	mark func(*models.StagePlayer),
	after func(*gorm.DB, *models.Room, *models.Player) ([]notification, error)) ([]notification, error) {

	var notes []notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		room, err := loadRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.Status.Terminal() {
			return ErrGameEnded
		}
		if room.Status != phase {
			return ErrInvalidTransition
		}

		// The target must hold a seat in this room; cross-room ids are
		// rejected outright.
		var target models.Player
		err = tx.Where("id = ? AND room_id = ?", targetPlayerID, room.ID).First(&target).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}

		stage, err := currentStage(tx, room.ID)
		if err != nil {
			return err
		}

		// Dead players have no row in a night stage.
		var row models.StagePlayer
		err = tx.Where("stage_id = ? AND player_id = ?", stage.ID, target.ID).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}

		mark(&row)
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		if after != nil {
			notes, err = after(tx, room, &target)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// PlayerStatus is the live view of one seat.
type PlayerStatus struct {
	PlayerID uint        `json:"player_id"`
	UserID   uint        `json:"user_id"`
	IsYou    bool        `json:"is_you"`
	Name     string      `json:"name"`
	Photo    string      `json:"photo"`
	Alive    bool        `json:"alive"`
	Role     models.Role `json:"role,omitempty"`
	DayVotes int         `json:"day_votes"`
}

// PlayerStatuses returns every seat with its assigned role; the room owner
// (the game master) uses this view. viewerUserID marks the caller's own seat.
func (s *Service) PlayerStatuses(roomID, viewerUserID uint) ([]PlayerStatus, error) {
	return s.playerStatuses(roomID, viewerUserID, true)
}

// PlayerStatusesPublic is the participant view: roles stay concealed.
func (s *Service) PlayerStatusesPublic(roomID, viewerUserID uint) ([]PlayerStatus, error) {
	return s.playerStatuses(roomID, viewerUserID, false)
}

func (s *Service) playerStatuses(roomID, viewerUserID uint, withRoles bool) ([]PlayerStatus, error) {
	room, err := loadRoom(s.db, roomID)
	if err != nil {
		return nil, err
	}

	var players []models.Player
	if err := s.db.Where("room_id = ?", room.ID).Order("id ASC").Find(&players).Error; err != nil {
		return nil, err
	}

	votes := map[uint]int{}
	if stage, err := currentStage(s.db, room.ID); err == nil {
		for _, row := range stage.Players {
			votes[row.PlayerID] = row.DayVotes
		}
	} else if !errors.Is(err, ErrStageNotFound) {
		return nil, err
	}

	statuses := make([]PlayerStatus, 0, len(players))
	for _, p := range players {
		status := PlayerStatus{
			PlayerID: p.ID,
			UserID:   p.UserID,
			IsYou:    p.UserID == viewerUserID,
			Name:     p.Name,
			Photo:    p.Photo,
			Alive:    p.Alive,
			DayVotes: votes[p.ID],
		}
		if withRoles {
			status.Role = p.Role
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
