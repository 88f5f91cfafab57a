// services/offline.go
package services

import (
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// Per-hour chances for the offline bonus rolls.
const (
	offlineGemChancePerHour    = 0.10
	offlineTicketChancePerHour = 0.05
)

// OfflineService estimates what a player would have earned while away. The
// estimate is statistical: it never simulates individual shifts, it scales
// average rates by the capped absence and the size of the pet collection.
type OfflineService struct {
	context.DefaultService

	eventSvc   *EventService
	monitorSvc *MonitoringService

	rng RandomSource
}

const OFFLINE_SVC = "offline_svc"

func (svc OfflineService) Id() string {
	return OFFLINE_SVC
}

func (svc *OfflineService) Configure(ctx *context.Context) error {
	svc.rng = DefaultRNG()
	return svc.DefaultService.Configure(ctx)
}

func (svc *OfflineService) Start() error {
	svc.eventSvc = svc.Service(EVENT_SVC).(*EventService)
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

func (svc *OfflineService) random() RandomSource {
	if svc.rng == nil {
		svc.rng = DefaultRNG()
	}
	return svc.rng
}

// CalculateOfflineProgress produces the resume report. Returns nil when the
// absence is under the minimum, so quick app switches grant nothing.
func (svc *OfflineService) CalculateOfflineProgress(state *model.PlayerState, now time.Time) *dto.OfflineReport {
	if state.Progress.LastSeenAt == nil {
		return nil
	}

	away := now.Sub(*state.Progress.LastSeenAt)
	if away < shared.MinOfflineTime {
		return nil
	}

	effective := away
	if effective > shared.MaxOfflineTime {
		effective = shared.MaxOfflineTime
	}
	hours := effective.Hours()

	petMultiplier := 1.0 + shared.OfflinePetBonus*float64(len(state.Pets))
	if petMultiplier > shared.OfflinePetCap {
		petMultiplier = shared.OfflinePetCap
	}

	report := &dto.OfflineReport{
		TimeAwaySeconds:  int64(away.Seconds()),
		EffectiveSeconds: int64(effective.Seconds()),
		CoinsEarned:      int(hours * shared.OfflineCoinsRate * shared.OfflineEfficiency * petMultiplier),
		ShiftsCompleted:  int(effective / shared.AvgShiftDuration),
	}
	report.MemoriesGenerated = int(float64(report.ShiftsCompleted) * shared.MemoriesPerShift)

	rng := svc.random()
	for hour := 0; hour < int(hours); hour++ {
		if rng.Float64() < offlineGemChancePerHour {
			report.BonusGems++
		}
		if rng.Float64() < offlineTicketChancePerHour {
			report.BonusTickets++
		}
	}

	return report
}

// ApplyOfflineProgress mutates the state with the report and stamps the
// player as seen now. Callers persist the state afterwards; the report is
// returned to the client once and never replayed.
func (svc *OfflineService) ApplyOfflineProgress(state *model.PlayerState, report *dto.OfflineReport, now time.Time) {
	state.Progress.LastSeenAt = &now
	if report == nil {
		return
	}

	state.AddCoins(report.CoinsEarned)
	state.AddDiamonds(report.BonusGems)
	state.AddGachaTickets(report.BonusTickets)
	state.Progress.LifetimeShiftCompletions += report.ShiftsCompleted

	log.WithFields(log.Fields{
		"player_id": state.Progress.PlayerID,
		"coins":     report.CoinsEarned,
		"shifts":    report.ShiftsCompleted,
	}).Info("offline progress applied")

	if svc.monitorSvc != nil {
		svc.monitorSvc.RecordOfflineReport()
	}

	if svc.eventSvc != nil {
		svc.eventSvc.Publish(OfflineProgressPayload{
			PlayerID:         state.Progress.PlayerID,
			EffectiveSeconds: report.EffectiveSeconds,
			CoinsEarned:      report.CoinsEarned,
			ShiftsCompleted:  report.ShiftsCompleted,
		})
	}
}
