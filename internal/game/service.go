package game

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"mafia/backend/internal/models"

	"gorm.io/gorm"
)

// Service is the game core. All mutations to a single room are serialized
// through a per-room mutex and executed inside one GORM transaction, so night
// resolution always observes a consistent snapshot of the votes cast before
// the day started.
type Service struct {
	db       *gorm.DB
	notifier Notifier

	rngMu sync.Mutex
	rng   *rand.Rand

	locksMu sync.Mutex
	locks   map[uint]*sync.Mutex
}

// NewService wires the game core to its collaborators. The notifier may be
// nil, in which case events are dropped.
func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		locks:    make(map[uint]*sync.Mutex),
	}
}

// roomLock returns the mutex serializing mutations for one room.
func (s *Service) roomLock(roomID uint) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[roomID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[roomID] = mu
	}
	return mu
}

// dispatch delivers queued notifications after the room lock has been
// released. Delivery failures are logged and swallowed.
func (s *Service) dispatch(notes []notification) {
	if s.notifier == nil {
		return
	}
	for _, n := range notes {
		var err error
		if n.roomCode != "" {
			err = s.notifier.NotifyRoom(n.roomCode, n.event, n.payload)
		} else {
			err = s.notifier.NotifyParticipant(n.userID, n.event, n.payload)
		}
		if err != nil {
			log.Printf("notify %s failed: %v", n.event, err)
		}
	}
}

func (s *Service) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

func (s *Service) shuffle(n int, swap func(i, j int)) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(n, swap)
}

func loadRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := tx.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func loadRoomByCode(tx *gorm.DB, code string) (*models.Room, error) {
	var room models.Room
	if err := tx.Where("code = ?", code).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// currentStage loads the room's highest-numbered stage with its vote rows in
// insertion order. Insertion order is the documented tie-break for every
// vote-count resolution.
func currentStage(tx *gorm.DB, roomID uint) (*models.Stage, error) {
	var stage models.Stage
	err := tx.Where("room_id = ?", roomID).
		Order("number DESC").
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("stage_players.id ASC") }).
		First(&stage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	return &stage, nil
}

// livingPlayers returns the room's seats that are still alive, ordered by id.
func livingPlayers(tx *gorm.DB, roomID uint) ([]models.Player, error) {
	var players []models.Player
	err := tx.Where("room_id = ? AND alive = ?", roomID, true).
		Order("id ASC").
		Find(&players).Error
	return players, err
}
