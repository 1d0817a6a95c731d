package game

import (
	"time"

	"mafia/backend/internal/models"

	"gorm.io/gorm"
)

// GameStatus is the result of one win evaluation. A NoWinner evaluation
// (neither flag set) still carries the player eliminated by the day vote, if
// any.
type GameStatus struct {
	EliminatedPlayerID *uint  `json:"eliminated_player_id,omitempty"`
	EliminatedName     string `json:"eliminated_name,omitempty"`
	MafiaWin           bool   `json:"mafia_win"`
	CivilianWin        bool   `json:"civilian_win"`
}

// EvaluateGameStatus executes the day vote and recomputes the win condition.
// Callers invoke it at the end of day voting; StartDay runs the same
// evaluation internally right after the night kill.
func (s *Service) EvaluateGameStatus(roomID uint) (*GameStatus, error) {
	mu := s.roomLock(roomID)
	mu.Lock()
	status, notes, err := s.evaluateGameStatus(roomID)
	mu.Unlock()

	if err != nil {
		return nil, err
	}
	s.dispatch(notes)
	return status, nil
}

func (s *Service) evaluateGameStatus(roomID uint) (*GameStatus, []notification, error) {
	var status GameStatus
	var notes []notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		room, err := loadRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.Status.Terminal() {
			return ErrGameEnded
		}
		if room.Status == models.StatusNotStarted {
			return ErrInvalidTransition
		}

		stage, err := currentStage(tx, room.ID)
		if err != nil {
			return err
		}
		players, err := playersByID(tx, room.ID)
		if err != nil {
			return err
		}

		status, notes, err = s.evaluate(tx, room, stage, players)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &status, notes, nil
}

// evaluate counts the living factions, decides the winner, and executes the
// day vote. Mafia wins at parity (m >= c), taken as-is from the established
// rules of the game.
func (s *Service) evaluate(tx *gorm.DB, room *models.Room, stage *models.Stage, players map[uint]*models.Player) (GameStatus, []notification, error) {
	var status GameStatus
	var notes []notification

	var mafia, civilians int
	for _, p := range players {
		if !p.Alive {
			continue
		}
		if p.Role == models.RoleMafia {
			mafia++
		} else {
			civilians++
		}
	}
	switch {
	case mafia == 0:
		status.CivilianWin = true
	case mafia >= civilians:
		status.MafiaWin = true
	}

	// The most-accused living player is sacrificed; ties go to the
	// earliest-recorded row. Each stage executes its sacrifice at most once,
	// so a retried evaluation cannot claim a second victim from the same
	// tally.
	var accused *models.StagePlayer
	if !stage.DayExecuted {
		for i := range stage.Players {
			row := &stage.Players[i]
			if row.DayVotes == 0 {
				continue
			}
			p, ok := players[row.PlayerID]
			if !ok || !p.Alive {
				continue
			}
			if accused == nil || row.DayVotes > accused.DayVotes {
				accused = row
			}
		}
	}
	if accused != nil {
		victim := players[accused.PlayerID]
		if err := tx.Model(&models.Player{}).Where("id = ?", victim.ID).
			Update("alive", false).Error; err != nil {
			return status, nil, err
		}
		if err := tx.Model(stage).Update("day_executed", true).Error; err != nil {
			return status, nil, err
		}
		stage.DayExecuted = true
		victim.Alive = false
		status.EliminatedPlayerID = &victim.ID
		status.EliminatedName = victim.Name
	}

	switch {
	case status.MafiaWin:
		now := time.Now()
		updates := map[string]any{"status": models.StatusMafiaWin, "ended_at": &now}
		if err := tx.Model(room).Updates(updates).Error; err != nil {
			return status, nil, err
		}
		room.Status = models.StatusMafiaWin
		notes = append(notes, roomNote(room.Code, EventGameStatus, "The mafia won"))
	case status.CivilianWin:
		now := time.Now()
		updates := map[string]any{"status": models.StatusCivilianWin, "ended_at": &now}
		if err := tx.Model(room).Updates(updates).Error; err != nil {
			return status, nil, err
		}
		room.Status = models.StatusCivilianWin
		notes = append(notes, roomNote(room.Code, EventGameStatus, "The civilians won"))
	default:
		if accused != nil {
			notes = append(notes, roomNote(room.Code, EventUserKill,
				"By day, the town sacrificed: "+status.EliminatedName+"."))
		}
	}

	return status, notes, nil
}
