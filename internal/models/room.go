package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomStatus tracks where a room is in its lifecycle. Transitions only move
// forward: not_started -> in_progress -> day/night cycles -> a win status.
type RoomStatus string

const (
	StatusNotStarted  RoomStatus = "not_started"
	StatusInProgress  RoomStatus = "in_progress"
	StatusDay         RoomStatus = "day"
	StatusNight       RoomStatus = "night"
	StatusCivilianWin RoomStatus = "civilian_win"
	StatusMafiaWin    RoomStatus = "mafia_win"
)

// Terminal reports whether the room has reached a win status.
func (s RoomStatus) Terminal() bool {
	return s == StatusCivilianWin || s == StatusMafiaWin
}

// Room represents one game session with a fixed seat capacity.
type Room struct {
	gorm.Model
	OwnerID uint   `gorm:"not null;index"`
	Code    string `gorm:"size:8;unique;not null"`
	Secret  string `gorm:"size:8;not null"`

	Status       RoomStatus `gorm:"size:50;not null;default:'not_started';index"`
	MafiaCount   int        `gorm:"not null"`
	PlayerCount  int        `gorm:"not null"`
	CurrentCount int        `gorm:"not null;default:0"`
	CurrentStage int        `gorm:"not null;default:1"`
	EndedAt      *time.Time

	Owner   User     `gorm:"foreignKey:OwnerID"`
	Players []Player `gorm:"foreignKey:RoomID"`
	Stages  []Stage  `gorm:"foreignKey:RoomID"`
}
