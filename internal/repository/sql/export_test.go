package sql

import "time"

// SetEventClock replaces the clock used to stamp event timestamps.
func SetEventClock(repo *EventRepository, now func() time.Time) {
	repo.now = now
}

// SetTransactionClock replaces the clock handed to transactional repositories.
func SetTransactionClock(repo *TransactionalRepository, now func() time.Time) {
	repo.now = now
}

var FormatTime = formatTime
