package game

import (
	"errors"
	"testing"

	"mafia/backend/internal/models"
)

func countRoles(roles []models.Role) map[models.Role]int {
	counts := make(map[models.Role]int)
	for _, r := range roles {
		counts[r]++
	}
	return counts
}

func TestRoleBag(t *testing.T) {
	tests := []struct {
		name       string
		mafiaCount int
		seated     int
		want       map[models.Role]int
	}{
		{
			name:       "small table",
			mafiaCount: 1, seated: 5,
			want: map[models.Role]int{
				models.RoleMafia: 1, models.RoleDoctor: 1,
				models.RoleInvestigator: 1, models.RoleCivilian: 2,
			},
		},
		{
			name:       "threshold table has no seductress",
			mafiaCount: 2, seated: 10,
			want: map[models.Role]int{
				models.RoleMafia: 2, models.RoleDoctor: 1,
				models.RoleInvestigator: 1, models.RoleCivilian: 6,
			},
		},
		{
			name:       "large table gains a seductress",
			mafiaCount: 2, seated: 11,
			want: map[models.Role]int{
				models.RoleMafia: 2, models.RoleDoctor: 1,
				models.RoleInvestigator: 1, models.RoleSeductress: 1,
				models.RoleCivilian: 6,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := countRoles(roleBag(tt.mafiaCount, tt.seated))
			for role, want := range tt.want {
				if got[role] != want {
					t.Errorf("bag[%s] = %d, want %d", role, got[role], want)
				}
			}
			if got[models.RoleUnassigned] != 0 {
				t.Errorf("bag contains unassigned cards")
			}
		})
	}
}

func TestStartGameDealsExactBag(t *testing.T) {
	svc, notifier := newTestService(t)
	room, players := startedRoom(t, svc, 1, 5, 5)

	roles := make([]models.Role, 0, len(players))
	for _, p := range players {
		if p.Role == models.RoleUnassigned {
			t.Fatalf("player %d still unassigned", p.ID)
		}
		roles = append(roles, p.Role)
	}
	got := countRoles(roles)
	want := map[models.Role]int{
		models.RoleMafia: 1, models.RoleDoctor: 1,
		models.RoleInvestigator: 1, models.RoleCivilian: 2,
	}
	for role, n := range want {
		if got[role] != n {
			t.Errorf("dealt %d %s, want %d", got[role], role, n)
		}
	}
	if got[models.RoleSeductress] != 0 {
		t.Errorf("seductress dealt at a 5 seat table")
	}

	if status := roomStatus(t, svc, room.ID); status != models.StatusInProgress {
		t.Fatalf("status = %s, want %s", status, models.StatusInProgress)
	}

	// Stage 1 opens as a day stage with a vote row per seat.
	stage, err := currentStage(svc.db, room.ID)
	if err != nil {
		t.Fatalf("current stage: %v", err)
	}
	if stage.Number != 1 || !stage.DayStarted || stage.NightStarted {
		t.Fatalf("stage 1 = %+v, want day stage number 1", stage)
	}
	if len(stage.Players) != 5 {
		t.Fatalf("stage rows = %d, want 5", len(stage.Players))
	}

	// Every participant privately learned exactly one role.
	for _, p := range players {
		if got := notifier.forUser(p.UserID, EventRoleAssigned); len(got) != 1 {
			t.Fatalf("user %d received %d role events, want 1", p.UserID, len(got))
		}
	}
	if notifier.count(EventGameStarted) != 1 {
		t.Fatalf("GameStarted events = %d, want 1", notifier.count(EventGameStarted))
	}
}

func TestStartGameErrors(t *testing.T) {
	svc, _ := newTestService(t)

	empty, _ := svc.CreateRoom(1, 1, 5)
	if err := svc.StartGame(empty.ID); !errors.Is(err, ErrRoomNotReady) {
		t.Fatalf("start empty room error = %v, want %v", err, ErrRoomNotReady)
	}

	room, _ := svc.CreateRoom(1, 1, 5)
	seatPlayers(t, svc, room.Code, 3)
	if err := svc.StartGame(room.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.StartGame(room.ID); !errors.Is(err, ErrRoomNotReady) {
		t.Fatalf("second start error = %v, want %v", err, ErrRoomNotReady)
	}

	if err := svc.StartGame(9999); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("start unknown room error = %v, want %v", err, ErrRoomNotFound)
	}
}

func TestStartGameLargeTableSeductress(t *testing.T) {
	svc, _ := newTestService(t)
	_, players := startedRoom(t, svc, 2, 12, 11)

	roles := make([]models.Role, 0, len(players))
	for _, p := range players {
		roles = append(roles, p.Role)
	}
	if got := countRoles(roles)[models.RoleSeductress]; got != 1 {
		t.Fatalf("seductress count = %d, want 1", got)
	}
}
