package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	AccountRepository  *AccountRepository
	ProfileRepository  *ProfileRepository
	EventRepository    *EventRepository
	WaitlistRepository *WaitlistRepository
	TokenRepository    *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AccountRepository:  NewAccountRepository(db),
		ProfileRepository:  NewProfileRepository(db),
		EventRepository:    NewEventRepository(db),
		WaitlistRepository: NewWaitlistRepository(db),
		TokenRepository:    NewTokenRepository(db),
	}
}
