package game

import (
	"errors"
	"testing"

	"mafia/backend/internal/models"
)

// TestFullGame plays one short match end to end: deal, a night with a kill
// and a failed save, the day's reckoning, and the town voting out the mafia.
func TestFullGame(t *testing.T) {
	svc, notifier := newTestService(t)

	room, err := svc.CreateRoom(1, 1, 5)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	players := seatPlayers(t, svc, room.Code, 5)
	if err := svc.StartGame(room.ID); err != nil {
		t.Fatalf("start game: %v", err)
	}
	for _, p := range players {
		if err := svc.db.First(p, p.ID).Error; err != nil {
			t.Fatalf("reload player: %v", err)
		}
	}

	mafia := byRole(t, players, models.RoleMafia)
	doctor := byRole(t, players, models.RoleDoctor)
	investigator := byRole(t, players, models.RoleInvestigator)
	victim := byRole(t, players, models.RoleCivilian)

	// Night one.
	if _, err := svc.AdvanceStage(room.ID, StartNight); err != nil {
		t.Fatalf("start night: %v", err)
	}
	if err := svc.MafiaVote(room.ID, victim.ID); err != nil {
		t.Fatalf("mafia vote: %v", err)
	}
	if _, err := svc.AdvanceStage(room.ID, NightMafiaDone); err != nil {
		t.Fatalf("mafia done: %v", err)
	}
	// The doctor guesses wrong and protects themselves.
	if err := svc.DoctorVote(room.ID, doctor.ID); err != nil {
		t.Fatalf("doctor vote: %v", err)
	}
	if _, err := svc.AdvanceStage(room.ID, NightDoctorDone); err != nil {
		t.Fatalf("doctor done: %v", err)
	}
	if err := svc.InvestigatorVote(room.ID, mafia.ID); err != nil {
		t.Fatalf("investigator vote: %v", err)
	}
	if _, err := svc.AdvanceStage(room.ID, NightInvestigatorDone); err != nil {
		t.Fatalf("investigator done: %v", err)
	}

	// Daybreak: the unprotected victim dies, nobody has won yet.
	daybreak, err := svc.AdvanceStage(room.ID, StartDay)
	if err != nil {
		t.Fatalf("start day: %v", err)
	}
	if daybreak.Outcome.Cause != CauseKilled {
		t.Fatalf("cause = %s, want %s", daybreak.Outcome.Cause, CauseKilled)
	}
	if *daybreak.Outcome.VictimID != victim.ID {
		t.Fatalf("victim = %d, want %d", *daybreak.Outcome.VictimID, victim.ID)
	}
	if daybreak.Status.MafiaWin || daybreak.Status.CivilianWin {
		t.Fatalf("status after night one = %+v, want no winner", daybreak.Status)
	}

	// The investigator knows: the town votes the mafia out.
	if got := notifier.forUser(investigator.UserID, EventInvestigatorResult); len(got) != 1 {
		t.Fatalf("investigator results = %d, want 1", len(got))
	}
	for _, p := range players {
		if p.ID == victim.ID || p.ID == mafia.ID {
			continue
		}
		if err := svc.DayVote(room.ID, mafia.ID); err != nil {
			t.Fatalf("day vote by player %d: %v", p.ID, err)
		}
	}

	status, err := svc.EvaluateGameStatus(room.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if status.EliminatedPlayerID == nil || *status.EliminatedPlayerID != mafia.ID {
		t.Fatalf("eliminated = %v, want mafia seat %d", status.EliminatedPlayerID, mafia.ID)
	}

	// With the mafia gone the next evaluation closes the game.
	status, err = svc.EvaluateGameStatus(room.ID)
	if err != nil {
		t.Fatalf("closing evaluate: %v", err)
	}
	if !status.CivilianWin {
		t.Fatalf("final status = %+v, want civilian win", status)
	}
	if got := roomStatus(t, svc, room.ID); got != models.StatusCivilianWin {
		t.Fatalf("room status = %s, want %s", got, models.StatusCivilianWin)
	}
	if notifier.count(EventGameStatus) != 1 {
		t.Fatalf("GameStatus events = %d, want 1", notifier.count(EventGameStatus))
	}

	// The closed room rejects everything.
	if _, err := svc.AdvanceStage(room.ID, StartNight); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("advance after win error = %v, want %v", err, ErrGameEnded)
	}
	if _, err := svc.JoinRoom(room.Code, PlayerInfo{UserID: 9, Name: "late"}); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("join after win error = %v, want %v", err, ErrGameEnded)
	}
}
