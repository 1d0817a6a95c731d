package models

import "gorm.io/gorm"

// Stage is one day/night cycle within a Room. The boolean flags record which
// sub-phases completed this cycle; once set they are never cleared.
type Stage struct {
	gorm.Model
	RoomID uint `gorm:"not null;index"`
	Number int  `gorm:"not null;default:1"`

	NightStarted      bool `gorm:"not null;default:false"`
	MafiaActed        bool `gorm:"not null;default:false"`
	DoctorActed       bool `gorm:"not null;default:false"`
	SeductressActed   bool `gorm:"not null;default:false"`
	InvestigatorActed bool `gorm:"not null;default:false"`
	DayStarted        bool `gorm:"not null;default:false"`
	DayExecuted       bool `gorm:"not null;default:false"`

	Players []StagePlayer `gorm:"foreignKey:StageID"`
}
