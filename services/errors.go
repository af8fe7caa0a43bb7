package services

import (
	"errors"
	"fmt"

	"github.com/mituwo-320/asket-entry/repositories"
	"github.com/mituwo-320/asket-entry/schedule"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed   = errors.New("validation failed")
	ErrTournamentRequired = errors.New("tournament id is required")
	ErrNotEnoughEntries   = errors.New("at least two submitted entries are required to generate a schedule")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrMultipleDelegates  = errors.New("an entry can have at most one representative")
	ErrEntryClosed        = errors.New("entry period is closed for this tournament")

	// Конфликты
	ErrTeamNameConflict   = errors.New("team name is already registered for this tournament")
	ErrTournamentConflict = errors.New("tournament with this id already exists")

	// Аутентификация
	ErrInvalidCredentials   = errors.New("invalid password")
	ErrAuthenticationFailed = errors.New("authentication failed")

	// Сущности
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrEventNotFound      = errors.New("schedule event not found")
)

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисного слоя.
func handleRepositoryError(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentConflict):
		return ErrTournamentConflict
	case errors.Is(err, repositories.ErrEntryNotFound):
		return ErrEntryNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrEntryTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrEntryInvalid),
		errors.Is(err, repositories.ErrTournamentInvalid),
		errors.Is(err, repositories.ErrMatchInvalid),
		errors.Is(err, repositories.ErrEventInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isScheduleInputError reports errors caused by bad allocation parameters or event times.
func isScheduleInputError(err error) bool {
	return errors.Is(err, schedule.ErrInvalidDuration) ||
		errors.Is(err, schedule.ErrInvalidInterval) ||
		errors.Is(err, schedule.ErrInvalidTime) ||
		errors.Is(err, schedule.ErrDayOverflow) ||
		errors.Is(err, schedule.ErrInvalidGroupCount)
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}
