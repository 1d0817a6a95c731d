package game

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"mafia/backend/internal/database"
	"mafia/backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordedEvent is one delivery captured by the fake notifier.
type recordedEvent struct {
	RoomCode string
	UserID   uint
	Event    string
	Payload  any
}

// recordingNotifier captures events instead of delivering them.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingNotifier) NotifyRoom(roomCode, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{RoomCode: roomCode, Event: event, Payload: payload})
	return nil
}

func (r *recordingNotifier) NotifyParticipant(userID uint, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{UserID: userID, Event: event, Payload: payload})
	return nil
}

func (r *recordingNotifier) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (r *recordingNotifier) forUser(userID uint, event string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.UserID == userID && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache memory database keeps GORM's pooled connections
	// on the same schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *recordingNotifier) {
	t.Helper()

	notifier := &recordingNotifier{}
	svc := NewService(newTestDB(t), notifier)
	svc.rng = rand.New(rand.NewSource(1)) // deterministic deals
	return svc, notifier
}

// seatPlayers joins n users (user ids 1..n) into the room.
func seatPlayers(t *testing.T, svc *Service, code string, n int) []*models.Player {
	t.Helper()

	players := make([]*models.Player, 0, n)
	for i := 1; i <= n; i++ {
		p, err := svc.JoinRoom(code, PlayerInfo{
			UserID: uint(i),
			Name:   fmt.Sprintf("player-%d", i),
		})
		if err != nil {
			t.Fatalf("join player %d: %v", i, err)
		}
		players = append(players, p)
	}
	return players
}

// startedRoom creates a room, seats players and deals the roles.
func startedRoom(t *testing.T, svc *Service, mafiaCount, capacity, seated int) (*models.Room, []*models.Player) {
	t.Helper()

	room, err := svc.CreateRoom(99, mafiaCount, capacity)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	players := seatPlayers(t, svc, room.Code, seated)
	if err := svc.StartGame(room.ID); err != nil {
		t.Fatalf("start game: %v", err)
	}
	for _, p := range players {
		if err := svc.db.First(p, p.ID).Error; err != nil {
			t.Fatalf("reload player: %v", err)
		}
	}
	return room, players
}

// byRole returns the first seated player holding the role.
func byRole(t *testing.T, players []*models.Player, role models.Role) *models.Player {
	t.Helper()
	for _, p := range players {
		if p.Role == role {
			return p
		}
	}
	t.Fatalf("no player with role %s", role)
	return nil
}

// roomStatus reloads the room's status.
func roomStatus(t *testing.T, svc *Service, roomID uint) models.RoomStatus {
	t.Helper()
	var room models.Room
	if err := svc.db.First(&room, roomID).Error; err != nil {
		t.Fatalf("reload room: %v", err)
	}
	return room.Status
}

func TestDispatchWithoutNotifier(t *testing.T) {
	svc := NewService(newTestDB(t), nil)

	room, err := svc.CreateRoom(1, 1, 5)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	// Joining emits events; with no notifier they are dropped, not panicking.
	if _, err := svc.JoinRoom(room.Code, PlayerInfo{UserID: 1, Name: "solo"}); err != nil {
		t.Fatalf("join: %v", err)
	}
}
