package application

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"guildconsole/domain/entities"
	"guildconsole/domain/identity"
	"guildconsole/domain/interfaces"
	"guildconsole/domain/sources"
)

// PersistenceOrchestrator writes a guild section to every remote source
type PersistenceOrchestrator struct {
	repo    interfaces.SettingsSourceRepository
	deriver *identity.Deriver
	mappers []sources.Mapper
	metrics Metrics
}

// NewPersistenceOrchestrator creates a persistence orchestrator over every registered source
func NewPersistenceOrchestrator(repo interfaces.SettingsSourceRepository, deriver *identity.Deriver, metrics Metrics) *PersistenceOrchestrator {
	return newPersistenceOrchestrator(repo, deriver, sources.Mappers(), metrics)
}

func newPersistenceOrchestrator(repo interfaces.SettingsSourceRepository, deriver *identity.Deriver, mappers []sources.Mapper, metrics Metrics) *PersistenceOrchestrator {
	if deriver == nil {
		deriver = identity.NewDeriver(nil)
	}
	return &PersistenceOrchestrator{
		repo:    repo,
		deriver: deriver,
		mappers: mappers,
		metrics: metricsOrNoop(metrics),
	}
}

// Persist upserts one row per source concurrently. Every write is attempted
// and nothing is rolled back; if any write fails the result is an
// *AggregateError listing exactly the failed sources. Re-running Persist
// with the same section repeats the same upserts.
func (p *PersistenceOrchestrator) Persist(ctx context.Context, guildID string, guild entities.GuildSection) error {
	externalID, ok := p.deriver.Derive(guildID)
	if !ok {
		return ErrNoExternalID
	}

	results := settleAll(len(p.mappers), func(i int) (struct{}, error) {
		mapper := p.mappers[i]
		start := time.Now()

		err := p.repo.UpsertOne(ctx, mapper.Name, externalID, mapper.Outbound(guild))

		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeError
		}
		p.metrics.RecordSourceCall(mapper.Name, OperationUpsert, outcome, time.Since(start))
		return struct{}{}, err
	})

	var errs *multierror.Error
	for i, result := range results {
		if result.Err != nil {
			errs = multierror.Append(errs, SourceFailure{Source: p.mappers[i].Name, Err: result.Err})
		}
	}

	if aggErr := newAggregateError(guildID, errs); aggErr != nil {
		log.WithFields(log.Fields{
			"guildID":    guildID,
			"externalID": externalID,
			"failed":     aggErr.Sources(),
			"attempted":  len(p.mappers),
		}).WithError(aggErr).Error("Failed to persist some guild settings")
		return aggErr
	}

	log.WithFields(log.Fields{
		"guildID":    guildID,
		"externalID": externalID,
		"sources":    len(p.mappers),
	}).Info("Persisted guild settings")
	return nil
}
