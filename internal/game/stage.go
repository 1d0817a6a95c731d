package game

import (
	"mafia/backend/internal/models"

	"gorm.io/gorm"
)

// Transition names one step of the per-room state machine.
type Transition string

const (
	StartNight            Transition = "start_night"
	NightMafiaDone        Transition = "night_mafia_done"
	NightDoctorDone       Transition = "night_doctor_done"
	NightSeductressDone   Transition = "night_seductress_done"
	NightInvestigatorDone Transition = "night_investigator_done"
	StartDay              Transition = "start_day"
)

// DayBreak carries what StartDay produced: the night's resolved outcome and
// the win evaluation that followed it.
type DayBreak struct {
	Outcome NightOutcome `json:"outcome"`
	Status  GameStatus   `json:"status"`
}

// AdvanceStage drives the room state machine. The result is non-nil only for
// StartDay, which resolves the night and evaluates the win condition.
//
// The NightXDone transitions are idempotent: a duplicate submission (a client
// retry after a dropped response) is a no-op success. StartDay never waits
// for missing role actions — an absent action simply has no effect, so a
// silent client can never wedge the room.
func (s *Service) AdvanceStage(roomID uint, t Transition) (*DayBreak, error) {
	mu := s.roomLock(roomID)
	mu.Lock()
	result, notes, err := s.advanceStage(roomID, t)
	mu.Unlock()

	if err != nil {
		return nil, err
	}
	s.dispatch(notes)
	return result, nil
}

func (s *Service) advanceStage(roomID uint, t Transition) (*DayBreak, []notification, error) {
	var result *DayBreak
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

		switch t {
		case StartNight:
			if room.Status == models.StatusNight {
				return ErrInvalidTransition
			}
			notes, err = s.startNight(tx, room, stage)
			return err

		case NightMafiaDone:
			if !stage.MafiaActed {
				if err := tx.Model(stage).Update("mafia_acted", true).Error; err != nil {
					return err
				}
				notes = append(notes, roomNote(room.Code, EventMafiaTurn, "It's your turn, Mafia"))
			}
			return nil

		case NightDoctorDone:
			if !stage.DoctorActed {
				if err := tx.Model(stage).Update("doctor_acted", true).Error; err != nil {
					return err
				}
				notes = append(notes, roomNote(room.Code, EventDoctorTurn, "It's your turn, Doctor"))
			}
			return nil

		case NightSeductressDone:
			if !stage.SeductressActed {
				if err := tx.Model(stage).Update("seductress_acted", true).Error; err != nil {
					return err
				}
				notes = append(notes, roomNote(room.Code, EventSeductressTurn, "It's your turn, Seductress"))
			}
			return nil

		case NightInvestigatorDone:
			if !stage.InvestigatorActed {
				if err := tx.Model(stage).Update("investigator_acted", true).Error; err != nil {
					return err
				}
				notes = append(notes, roomNote(room.Code, EventInvestigatorTurn, "It's your turn, Investigator"))
			}
			return nil

		case StartDay:
			if stage.DayStarted {
				return ErrInvalidTransition
			}
			result, notes, err = s.startDay(tx, room, stage)
			return err

		default:
			return ErrInvalidTransition
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return result, notes, nil
}

// startNight opens stage N+1 with a fresh vote row for every living player.
func (s *Service) startNight(tx *gorm.DB, room *models.Room, prev *models.Stage) ([]notification, error) {
	stage := models.Stage{
		RoomID:       room.ID,
		Number:       prev.Number + 1,
		NightStarted: true,
	}
	if err := tx.Create(&stage).Error; err != nil {
		return nil, err
	}

	living, err := livingPlayers(tx, room.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range living {
		sp := models.StagePlayer{StageID: stage.ID, PlayerID: p.ID}
		if err := tx.Create(&sp).Error; err != nil {
			return nil, err
		}
	}

	updates := map[string]any{
		"status":        models.StatusNight,
		"current_stage": stage.Number,
	}
	if err := tx.Model(room).Updates(updates).Error; err != nil {
		return nil, err
	}

	return []notification{
		roomNote(room.Code, EventNightTime, "It's nighttime. Roles take your actions."),
	}, nil
}

// startDay closes the night: it resolves the recorded role actions into one
// outcome, applies the kill if any, then re-evaluates the win condition.
func (s *Service) startDay(tx *gorm.DB, room *models.Room, stage *models.Stage) (*DayBreak, []notification, error) {
	var notes []notification

	players, err := playersByID(tx, room.ID)
	if err != nil {
		return nil, nil, err
	}

	outcome := resolveNight(stage.Players, players)
	switch outcome.Cause {
	case CauseKilled:
		if err := tx.Model(&models.Player{}).Where("id = ?", *outcome.VictimID).
			Update("alive", false).Error; err != nil {
			return nil, nil, err
		}
		players[*outcome.VictimID].Alive = false
		notes = append(notes,
			roomNote(room.Code, EventNightKill, *outcome.VictimID),
			roomNote(room.Code, EventUserKill, outcome.VictimName+" did not survive the night."))
	case CauseSaved:
		notes = append(notes, roomNote(room.Code, EventUserKill,
			"The mafia killed no one tonight, the doctor saved the victim."))
	case CauseDiverted:
		notes = append(notes, roomNote(room.Code, EventUserKill,
			"The mafia killed no one tonight, the seductress diverted the killer."))
	}

	if err := tx.Model(stage).Update("day_started", true).Error; err != nil {
		return nil, nil, err
	}
	if err := tx.Model(room).Update("status", models.StatusDay).Error; err != nil {
		return nil, nil, err
	}
	room.Status = models.StatusDay

	status, winNotes, err := s.evaluate(tx, room, stage, players)
	if err != nil {
		return nil, nil, err
	}
	notes = append(notes, winNotes...)
	notes = append(notes, roomNote(room.Code, EventDayTime, "It's daytime. Roles take your actions."))

	return &DayBreak{Outcome: outcome, Status: status}, notes, nil
}

func playersByID(tx *gorm.DB, roomID uint) (map[uint]*models.Player, error) {
	var list []models.Player
	if err := tx.Where("room_id = ?", roomID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	players := make(map[uint]*models.Player, len(list))
	for i := range list {
		players[list[i].ID] = &list[i]
	}
	return players, nil
}
