package models

import "gorm.io/gorm"

// StagePlayer is the per-player voting record scoped to one Stage. A row is
// created for every living player when the stage begins and mutated by each
// vote call. Tie-breaks across rows use ascending ID, i.e. insertion order.
type StagePlayer struct {
	gorm.Model
	StageID  uint `gorm:"not null;index"`
	PlayerID uint `gorm:"not null;index"`

	MafiaTarget      bool `gorm:"not null;default:false"`
	MafiaVotes       int  `gorm:"not null;default:0"`
	DoctorPick       bool `gorm:"not null;default:false"`
	SeductressPick   bool `gorm:"not null;default:false"`
	InvestigatorPick bool `gorm:"not null;default:false"`
	DayVotes         int  `gorm:"not null;default:0"`

	Stage  Stage  `gorm:"foreignKey:StageID"`
	Player Player `gorm:"foreignKey:PlayerID"`
}
