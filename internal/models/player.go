package models

import "gorm.io/gorm"

// Role is the card dealt to a seated player when the game starts.
type Role string

const (
	RoleUnassigned   Role = "unassigned"
	RoleMafia        Role = "mafia"
	RoleDoctor       Role = "doctor"
	RoleInvestigator Role = "investigator"
	RoleSeductress   Role = "seductress"
	RoleCivilian     Role = "civilian"
)

type Gender string

const (
	GenderUnknown Gender = "unknown"
	GenderFemale  Gender = "female"
	GenderMale    Gender = "male"
)

// Player is a seat within a Room. Seats are never deleted; elimination
// (night kill, day vote, kick) flips Alive to false so history survives.
type Player struct {
	gorm.Model
	RoomID uint `gorm:"not null;index"`
	UserID uint `gorm:"not null;index"`

	Name   string `gorm:"size:255;not null"`
	Photo  string
	Age    int
	Gender Gender `gorm:"size:50;not null;default:'unknown'"`
	Role   Role   `gorm:"size:50;not null;default:'unassigned'"`
	Alive  bool   `gorm:"not null;default:true"`

	Room Room `gorm:"foreignKey:RoomID"`
	User User `gorm:"foreignKey:UserID"`
}
