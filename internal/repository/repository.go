package repository

import (
	"github.com/bilogames/account-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User             UserRepository
	VerificationCode VerificationCodeRepository
	ResetCode        ResetCodeRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:             NewUserRepository(db),
		VerificationCode: NewVerificationCodeRepository(db),
		ResetCode:        NewResetCodeRepository(db),
	}
}
