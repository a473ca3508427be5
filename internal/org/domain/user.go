package domain

import (
	"time"

	"github.com/yohannes4321/MissionForNation/pkg/idx"
)

type User struct {
	ID           idx.ID
	Email        string // stored lowercased, unique
	FirstName    string
	LastName     string
	PasswordHash string // argon2id encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
