package dto

// OfflineReport is produced once per app resume, applied immediately, then
// discarded. It is an estimate, not a replay of individual shifts.
type OfflineReport struct {
	TimeAwaySeconds   int64 `json:"time_away_seconds"`
	EffectiveSeconds  int64 `json:"effective_seconds"` // after the 8 hour cap
	CoinsEarned       int   `json:"coins_earned"`
	ShiftsCompleted   int   `json:"shifts_completed"`
	MemoriesGenerated int   `json:"memories_generated"`
	BonusGems         int   `json:"bonus_gems"`
	BonusTickets      int   `json:"bonus_tickets"`
}
