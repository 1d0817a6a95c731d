package game

import (
	"errors"
	"testing"

	"mafia/backend/internal/models"
)

func TestMafiaVotesAccumulate(t *testing.T) {
	svc, _ := newTestService(t)
	room, players := startedRoom(t, svc, 1, 6, 6)
	if _, err := svc.AdvanceStage(room.ID, StartNight); err != nil {
		t.Fatalf("start night: %v", err)
	}

	target := byRole(t, players, models.RoleCivilian)
	for i := 0; i < 3; i++ {
		if err := svc.MafiaVote(room.ID, target.ID); err != nil {
			t.Fatalf("mafia vote %d: %v", i+1, err)
		}
	}

	stage, err := currentStage(svc.db, room.ID)
	if err != nil {
		t.Fatalf("current stage: %v", err)
	}
	for _, row := range stage.Players {
		if row.PlayerID != target.ID {
			continue
		}
		if !row.MafiaTarget || row.MafiaVotes != 3 {
			t.Fatalf("row = %+v, want marked target with 3 votes", row)
		}
		return
	}
	t.Fatalf("no vote row for player %d", target.ID)
}

func TestNightVotesRequireNightPhase(t *testing.T) {
	svc, _ := newTestService(t)
	room, players := startedRoom(t, svc, 1, 6, 6)
	target := players[0]

	// Still in the opening day stage.
	if err := svc.MafiaVote(room.ID, target.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("mafia vote by day error = %v, want %v", err, ErrInvalidTransition)
	}

	if _, err := svc.AdvanceStage(room.ID, StartNight); err != nil {
		t.Fatalf("start night: %v", err)
	}
	if err := svc.DayVote(room.ID, target.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("day vote by night error = %v, want %v", err, ErrInvalidTransition)
	}
}

func TestVoteRejectsCrossRoomTarget(t *testing.T) {
	svc, _ := newTestService(t)
	room, _ := startedRoom(t, svc, 1, 6, 6)
	if _, err := svc.AdvanceStage(room.ID, StartNight); err != nil {
		t.Fatalf("start night: %v", err)
	}

	other, err := svc.CreateRoom(50, 1, 5)
	if err != nil {
		t.Fatalf("create other room: %v", err)
	}
	stranger, err := svc.JoinRoom(other.Code, PlayerInfo{UserID: 77, Name: "stranger"})
	if err != nil {
		t.Fatalf("join other room: %v", err)
	}

	if err := svc.MafiaVote(room.ID, stranger.ID); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("cross-room vote error = %v, want %v", err, ErrPlayerNotFound)
	}
}

func TestVoteRejectsDeadTarget(t *testing.T) {
	svc, _ := newTestService(t)
	room, players := startedRoom(t, svc, 1, 6, 6)

	dead := byRole(t, players, models.RoleCivilian)
	if err := svc.DisablePlayer(dead.ID); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := svc.AdvanceStage(room.ID, StartNight); err != nil {
		t.Fatalf("start night: %v", err)
	}

	// Dead seats get no row in the night stage.
	if err := svc.MafiaVote(room.ID, dead.ID); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("vote dead target error = %v, want %v", err, ErrPlayerNotFound)
	}
}

func TestInvestigatorResultIsPrivate(t *testing.T) {
	svc, notifier := newTestService(t)
	room, players := startedRoom(t, svc, 1, 6, 6)
	if _, err := svc.AdvanceStage(room.ID, StartNight); err != nil {
		t.Fatalf("start night: %v", err)
	}

	investigator := byRole(t, players, models.RoleInvestigator)
	mafia := byRole(t, players, models.RoleMafia)

	if err := svc.InvestigatorVote(room.ID, mafia.ID); err != nil {
		t.Fatalf("investigator vote: %v", err)
	}

	results := notifier.forUser(investigator.UserID, EventInvestigatorResult)
	if len(results) != 1 {
		t.Fatalf("investigator results = %d, want 1", len(results))
	}
	payload, ok := results[0].Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T, want map", results[0].Payload)
	}
	if isMafia, _ := payload["is_mafia"].(bool); !isMafia {
		t.Fatalf("payload = %v, want is_mafia true", payload)
	}

	// Nobody else sees the check; it never goes out as a room event.
	for _, p := range players {
		if p.UserID == investigator.UserID {
			continue
		}
		if got := notifier.forUser(p.UserID, EventInvestigatorResult); len(got) != 0 {
			t.Fatalf("user %d received the investigator result", p.UserID)
		}
	}
}

func TestDayVoteAnnouncesAccusation(t *testing.T) {
	svc, notifier := newTestService(t)
	room, players := startedRoom(t, svc, 1, 6, 6)
	toDay(t, svc, room.ID)

	if err := svc.DayVote(room.ID, players[2].ID); err != nil {
		t.Fatalf("day vote: %v", err)
	}
	if notifier.count(EventPlayerVote) != 1 {
		t.Fatalf("PlayerVote events = %d, want 1", notifier.count(EventPlayerVote))
	}
}

func TestVoteOnEndedRoom(t *testing.T) {
	svc, _ := newTestService(t)
	room, players := startedRoom(t, svc, 1, 5, 5)
	toDay(t, svc, room.ID)

	mafia := byRole(t, players, models.RoleMafia)
	if err := svc.DayVote(room.ID, mafia.ID); err != nil {
		t.Fatalf("day vote: %v", err)
	}
	if _, err := svc.EvaluateGameStatus(room.ID); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	// The sacrifice removed the last mafia; the next evaluation ends the game.
	if _, err := svc.EvaluateGameStatus(room.ID); err != nil {
		t.Fatalf("closing evaluate: %v", err)
	}

	if err := svc.DayVote(room.ID, players[0].ID); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("vote on ended room error = %v, want %v", err, ErrGameEnded)
	}
}

func TestPlayerStatusesRoleVisibility(t *testing.T) {
	svc, _ := newTestService(t)
	room, players := startedRoom(t, svc, 1, 5, 5)
	viewer := players[0]

	full, err := svc.PlayerStatuses(room.ID, viewer.UserID)
	if err != nil {
		t.Fatalf("statuses: %v", err)
	}
	if len(full) != 5 {
		t.Fatalf("statuses = %d, want 5", len(full))
	}
	sawYou := false
	for _, st := range full {
		if st.Role == models.RoleUnassigned || st.Role == "" {
			t.Fatalf("game-master view hides the role of player %d", st.PlayerID)
		}
		if st.IsYou {
			if st.UserID != viewer.UserID {
				t.Fatalf("is_you marks user %d, want %d", st.UserID, viewer.UserID)
			}
			sawYou = true
		}
	}
	if !sawYou {
		t.Fatal("viewer's own seat not marked")
	}

	public, err := svc.PlayerStatusesPublic(room.ID, viewer.UserID)
	if err != nil {
		t.Fatalf("public statuses: %v", err)
	}
	for _, st := range public {
		if st.Role != "" {
			t.Fatalf("public view leaks role %q for player %d", st.Role, st.PlayerID)
		}
	}
}

func TestPlayerStatusesCarryDayVotes(t *testing.T) {
	svc, _ := newTestService(t)
	room, players := startedRoom(t, svc, 1, 6, 6)
	toDay(t, svc, room.ID)

	accused := players[1]
	for i := 0; i < 2; i++ {
		if err := svc.DayVote(room.ID, accused.ID); err != nil {
			t.Fatalf("day vote: %v", err)
		}
	}

	statuses, err := svc.PlayerStatusesPublic(room.ID, players[0].UserID)
	if err != nil {
		t.Fatalf("statuses: %v", err)
	}
	for _, st := range statuses {
		want := 0
		if st.PlayerID == accused.ID {
			want = 2
		}
		if st.DayVotes != want {
			t.Fatalf("player %d day votes = %d, want %d", st.PlayerID, st.DayVotes, want)
		}
	}
}
