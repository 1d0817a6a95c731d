package game

import (
	"mafia/backend/internal/models"

	"gorm.io/gorm"
)

// Seated count above which the role bag includes a seductress.
const seductressThreshold = 10

// roleBag builds the deck of role cards for a game: mafiaCount mafia cards,
// one doctor, one investigator, a seductress for large tables, and civilians
// to fill the remaining seats.
func roleBag(mafiaCount, seated int) []models.Role {
	bag := make([]models.Role, 0, seated)
	for i := 0; i < mafiaCount; i++ {
		bag = append(bag, models.RoleMafia)
	}
	bag = append(bag, models.RoleDoctor, models.RoleInvestigator)
	if seated > seductressThreshold {
		bag = append(bag, models.RoleSeductress)
	}
	for len(bag) < seated {
		bag = append(bag, models.RoleCivilian)
	}
	return bag
}

// StartGame deals one role card to every seated player via a uniform random
// permutation, opens stage 1 as a day stage with a vote row per seat, and
// moves the room to in_progress. Each participant learns their own role
// privately.
func (s *Service) StartGame(roomID uint) error {
	mu := s.roomLock(roomID)
	mu.Lock()
	notes, err := s.startGame(roomID)
	mu.Unlock()

	if err != nil {
		return err
	}
	s.dispatch(notes)
	return nil
}

func (s *Service) startGame(roomID uint) ([]notification, error) {
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
			return ErrRoomNotReady
		}

		var players []models.Player
		if err := tx.Where("room_id = ?", room.ID).Order("id ASC").Find(&players).Error; err != nil {
			return err
		}
		if len(players) == 0 {
			return ErrRoomNotReady
		}

		bag := roleBag(room.MafiaCount, len(players))
		s.shuffle(len(bag), func(i, j int) { bag[i], bag[j] = bag[j], bag[i] })

		for i := range players {
			players[i].Role = bag[i]
			if err := tx.Model(&players[i]).Update("role", bag[i]).Error; err != nil {
				return err
			}
		}

		stage := models.Stage{
			RoomID:     room.ID,
			Number:     1,
			DayStarted: true,
		}
		if err := tx.Create(&stage).Error; err != nil {
			return err
		}
		for _, p := range players {
			sp := models.StagePlayer{StageID: stage.ID, PlayerID: p.ID}
			if err := tx.Create(&sp).Error; err != nil {
				return err
			}
		}

		updates := map[string]any{
			"status":        models.StatusInProgress,
			"current_stage": 1,
		}
		if err := tx.Model(room).Updates(updates).Error; err != nil {
			return err
		}

		notes = append(notes, roomNote(room.Code, EventGameStarted, room.Code))
		for _, p := range players {
			notes = append(notes, userNote(p.UserID, EventRoleAssigned, p.Role))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}
