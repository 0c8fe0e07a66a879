package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"guildconsole/domain/entities"
	"guildconsole/domain/identity"
	"guildconsole/domain/interfaces"
	"guildconsole/domain/sources"
)

// HydrationOrchestrator loads a guild's remote settings from every source
type HydrationOrchestrator struct {
	repo    interfaces.SettingsSourceRepository
	deriver *identity.Deriver
	mappers []sources.Mapper
	metrics Metrics
}

// NewHydrationOrchestrator creates a hydration orchestrator over every registered source
func NewHydrationOrchestrator(repo interfaces.SettingsSourceRepository, deriver *identity.Deriver, metrics Metrics) *HydrationOrchestrator {
	return newHydrationOrchestrator(repo, deriver, sources.Mappers(), metrics)
}

func newHydrationOrchestrator(repo interfaces.SettingsSourceRepository, deriver *identity.Deriver, mappers []sources.Mapper, metrics Metrics) *HydrationOrchestrator {
	if deriver == nil {
		deriver = identity.NewDeriver(nil)
	}
	return &HydrationOrchestrator{
		repo:    repo,
		deriver: deriver,
		mappers: mappers,
		metrics: metricsOrNoop(metrics),
	}
}

// Hydrate reads every source concurrently and merges the rows found, in
// registry order, into one patch for the guild section. Failed reads are
// logged and count as missing rows. It returns nil when no source has data.
func (h *HydrationOrchestrator) Hydrate(ctx context.Context, guildID string) entities.Patch {
	externalID, ok := h.deriver.Derive(guildID)
	if !ok {
		return nil
	}

	results := settleAll(len(h.mappers), func(i int) (entities.Patch, error) {
		mapper := h.mappers[i]
		start := time.Now()

		row, err := h.repo.ReadOne(ctx, mapper.Name, externalID)
		outcome := OutcomeSuccess
		switch {
		case err != nil:
			outcome = OutcomeError
		case row == nil:
			outcome = OutcomeEmpty
		}
		h.metrics.RecordSourceCall(mapper.Name, OperationRead, outcome, time.Since(start))

		if err != nil {
			return nil, err
		}
		return mapper.Inbound(row), nil
	})

	var aggregate entities.Patch
	for i, result := range results {
		if result.Err != nil {
			log.WithFields(log.Fields{
				"guildID":    guildID,
				"externalID": externalID,
				"source":     h.mappers[i].Name,
			}).WithError(result.Err).Warn("Settings source read failed, treating as no data")
			continue
		}
		if result.Value == nil {
			continue
		}
		aggregate = entities.DeepMerge(aggregate, result.Value)
	}

	log.WithFields(log.Fields{
		"guildID":    guildID,
		"externalID": externalID,
		"found":      aggregate != nil,
	}).Debug("Hydrated guild settings")

	return aggregate
}
