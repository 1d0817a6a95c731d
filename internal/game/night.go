package game

import "mafia/backend/internal/models"

// Cause classifies the single outcome a night resolves to.
type Cause string

const (
	CauseNoTarget Cause = "no_target"
	CauseSaved    Cause = "saved"
	CauseDiverted Cause = "diverted"
	CauseKilled   Cause = "killed"
)

// NightOutcome is the one resolved outcome of a night stage.
type NightOutcome struct {
	VictimID   *uint  `json:"victim_id,omitempty"`
	VictimName string `json:"victim_name,omitempty"`
	Cause      Cause  `json:"cause"`
}

// resolveNight combines a stage's role actions into a single outcome.
//
// The intended victim is the living player with the most mafia votes; ties go
// to the earliest-marked row, which is why rows must arrive in insertion
// order. The doctor and the seductress are interchangeable blockers: either
// one picking the victim nullifies the kill.
func resolveNight(rows []models.StagePlayer, players map[uint]*models.Player) NightOutcome {
	var victim *models.StagePlayer
	for i := range rows {
		row := &rows[i]
		if !row.MafiaTarget {
			continue
		}
		p, ok := players[row.PlayerID]
		if !ok || !p.Alive {
			continue
		}
		// Strictly greater keeps the earlier row on a tie.
		if victim == nil || row.MafiaVotes > victim.MafiaVotes {
			victim = row
		}
	}

	if victim == nil {
		return NightOutcome{Cause: CauseNoTarget}
	}

	target := players[victim.PlayerID]
	outcome := NightOutcome{VictimID: &target.ID, VictimName: target.Name}
	switch {
	case victim.DoctorPick:
		outcome.Cause = CauseSaved
	case victim.SeductressPick:
		outcome.Cause = CauseDiverted
	default:
		outcome.Cause = CauseKilled
	}
	return outcome
}
