package game

// Notifier delivers real-time events to room participants. Delivery is
// at-least-once and best-effort: failures are logged by the service and never
// roll back the game-state mutation that produced the event.
type Notifier interface {
	NotifyRoom(roomCode, event string, payload any) error
	NotifyParticipant(userID uint, event string, payload any) error
}

// Event names sent through the Notifier.
const (
	EventUserJoined         = "UserJoined"
	EventUserReconnected    = "UserReconnected"
	EventGameStarted        = "GameStarted"
	EventRoleAssigned       = "RoleAssigned"
	EventNightTime          = "NightTime"
	EventMafiaTurn          = "MafiaTurn"
	EventDoctorTurn         = "DoctorTurn"
	EventSeductressTurn     = "SeductressTurn"
	EventInvestigatorTurn   = "InvestigatorTurn"
	EventInvestigatorResult = "InvestigatorResult"
	EventDayTime            = "DayTime"
	EventNightKill          = "NightKill"
	EventUserKill           = "UserKill"
	EventPlayerVote         = "PlayerVote"
	EventPlayerDisabled     = "PlayerDisabled"
	EventGameStatus         = "GameStatus"
)

// notification is a queued event. Mutations collect notifications while the
// room lock is held; the service dispatches them only after the transaction
// has committed and the lock is released, so no client can observe a
// transition before it is persisted.
type notification struct {
	roomCode string // broadcast to the room when set
	userID   uint   // otherwise targeted at a single participant
	event    string
	payload  any
}

func roomNote(code, event string, payload any) notification {
	return notification{roomCode: code, event: event, payload: payload}
}

func userNote(userID uint, event string, payload any) notification {
	return notification{userID: userID, event: event, payload: payload}
}
