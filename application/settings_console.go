package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"guildconsole/domain/entities"
	"guildconsole/domain/identity"
	"guildconsole/domain/interfaces"
	"guildconsole/domain/reconcile"
	"guildconsole/domain/state"
	"guildconsole/events"
)

// SectionStatus is the edit state of one settings section
type SectionStatus string

const (
	StatusClean  SectionStatus = "clean"
	StatusDirty  SectionStatus = "dirty"
	StatusSaving SectionStatus = "saving"
)

// SettingsConsole owns the local settings store and drives hydration and
// persistence of the guild section. All state changes happen under one
// mutex; remote reads and writes run outside it.
type SettingsConsole struct {
	hydrator  *HydrationOrchestrator
	persister *PersistenceOrchestrator
	deriver   *identity.Deriver
	mirror    *SnapshotMirror
	feedback  interfaces.FeedbackPublisher
	now       func() time.Time

	mu       sync.Mutex
	state    state.State
	statuses map[string]map[entities.SectionName]SectionStatus
	// hydrated holds one gate per guild, closed once its hydration finished
	hydrated map[string]chan struct{}
}

// NewSettingsConsole creates a console with an empty store. mirror and
// feedback may be nil.
func NewSettingsConsole(
	repo interfaces.SettingsSourceRepository,
	deriver *identity.Deriver,
	mirror *SnapshotMirror,
	feedback interfaces.FeedbackPublisher,
	metrics Metrics,
) *SettingsConsole {
	if deriver == nil {
		deriver = identity.NewDeriver(nil)
	}
	return &SettingsConsole{
		hydrator:  NewHydrationOrchestrator(repo, deriver, metrics),
		persister: NewPersistenceOrchestrator(repo, deriver, metrics),
		deriver:   deriver,
		mirror:    mirror,
		feedback:  feedback,
		now:       time.Now,
		state:     state.New(),
		statuses:  make(map[string]map[entities.SectionName]SectionStatus),
		hydrated:  make(map[string]chan struct{}),
	}
}

// Load replaces the store with the snapshot held by cache, then ensures a
// record for every guild in guildIDs. A missing, unreadable or corrupt
// snapshot starts from an empty store.
func (c *SettingsConsole) Load(ctx context.Context, cache interfaces.SnapshotCache, guildIDs []string) {
	loaded := state.New()
	if cache != nil {
		data, err := cache.Load(ctx)
		switch {
		case err != nil:
			log.WithError(err).Warn("Failed to read local settings snapshot, starting from defaults")
		case data != nil:
			loaded = state.DecodeSnapshot(data)
		}
	}

	c.mu.Lock()
	c.state = state.Reduce(loaded, state.SyncGuilds{GuildIDs: guildIDs})
	c.scheduleLocked()
	guilds := len(c.state.Records)
	c.mu.Unlock()

	log.WithFields(log.Fields{
		"guilds": guilds,
	}).Info("Loaded local settings store")
}

// SyncGuilds ensures a record exists for every guild in guildIDs
func (c *SettingsConsole) SyncGuilds(guildIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := state.Reduce(c.state, state.SyncGuilds{GuildIDs: guildIDs})
	if len(next.Records) == len(c.state.Records) {
		return
	}
	c.state = next
	c.scheduleLocked()
}

// GuildIDs returns the ids of every known guild in sorted order
func (c *SettingsConsole) GuildIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.state.Records))
	for guildID := range c.state.Records {
		ids = append(ids, guildID)
	}
	sort.Strings(ids)
	return ids
}

// Record returns a copy of a guild's record
func (c *SettingsConsole) Record(guildID string) (entities.GuildSettingsRecord, bool) {
	c.mu.Lock()
	record, ok := c.state.Record(guildID)
	c.mu.Unlock()

	if !ok {
		return entities.GuildSettingsRecord{}, false
	}
	return reconcile.Record(&record), true
}

// Status returns the edit state of one section
func (c *SettingsConsole) Status(guildID string, section entities.SectionName) SectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked(guildID, section)
}

// Statuses returns the edit state of every section of a guild
func (c *SettingsConsole) Statuses(guildID string) map[entities.SectionName]SectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[entities.SectionName]SectionStatus, len(entities.AllSections()))
	for _, section := range entities.AllSections() {
		out[section] = c.statusLocked(guildID, section)
	}
	return out
}

// ExternalID returns the remote identifier of a guild
func (c *SettingsConsole) ExternalID(guildID string) (int64, error) {
	externalID, ok := c.deriver.Derive(guildID)
	if !ok {
		return 0, ErrNoExternalID
	}
	return externalID, nil
}

// HydrateAll hydrates every known guild concurrently. Guilds restored from
// the snapshot enter scope this way when no guild listing is available.
func (c *SettingsConsole) HydrateAll(ctx context.Context) {
	guildIDs := c.GuildIDs()
	results := settleAll(len(guildIDs), func(i int) (struct{}, error) {
		return struct{}{}, c.EnsureHydrated(ctx, guildIDs[i])
	})

	failed := 0
	for i, result := range results {
		if result.Err != nil {
			failed++
			log.WithFields(log.Fields{
				"guildID": guildIDs[i],
			}).WithError(result.Err).Warn("Failed to hydrate guild settings")
		}
	}

	log.WithFields(log.Fields{
		"guilds": len(guildIDs),
		"failed": failed,
	}).Info("Hydrated guilds in scope")
}

// UpdateSection merges patch into a section and marks it dirty. The guild
// section is hydrated first so the edit lands on top of the remote values.
func (c *SettingsConsole) UpdateSection(ctx context.Context, guildID string, section entities.SectionName, patch entities.Patch) error {
	if err := c.hydrateBeforeEdit(ctx, guildID, section); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state.Reduce(c.state, state.UpdateSection{GuildID: guildID, Section: section, Patch: patch})
	c.setStatusLocked(guildID, section, StatusDirty)
	c.scheduleLocked()
	return nil
}

// ResetSection restores a section to its defaults and marks it dirty. The
// reset is local until the section is saved.
func (c *SettingsConsole) ResetSection(ctx context.Context, guildID string, section entities.SectionName) error {
	if err := c.hydrateBeforeEdit(ctx, guildID, section); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = state.Reduce(c.state, state.ResetSection{GuildID: guildID, Section: section})
	c.setStatusLocked(guildID, section, StatusDirty)
	c.scheduleLocked()
	c.mu.Unlock()

	c.publish(events.SettingsResetEvent{GuildID: guildID, Section: section})
	return nil
}

// EnsureHydrated loads the guild section from the remote sources the first
// time it is called for a guild. Concurrent callers wait for the same load.
// Remote data is never applied over a guild section with unsaved edits.
func (c *SettingsConsole) EnsureHydrated(ctx context.Context, guildID string) error {
	c.mu.Lock()
	for {
		if _, ok := c.state.Record(guildID); !ok {
			c.mu.Unlock()
			return ErrUnknownGuild
		}
		gate, ok := c.hydrated[guildID]
		if !ok {
			break
		}
		c.mu.Unlock()
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.mu.Lock()
		// A load that was interrupted removes its gate; take over from it
		if c.hydrated[guildID] == gate {
			c.mu.Unlock()
			return nil
		}
	}
	done := make(chan struct{})
	c.hydrated[guildID] = done
	c.mu.Unlock()
	defer close(done)

	patch := c.hydrator.Hydrate(ctx, guildID)

	if err := ctx.Err(); err != nil {
		// Allow a later caller to retry an interrupted load
		c.mu.Lock()
		delete(c.hydrated, guildID)
		c.mu.Unlock()
		return err
	}

	logger := log.WithFields(log.Fields{
		"guildID": guildID,
		"found":   patch != nil,
	})

	c.mu.Lock()
	applied := false
	if patch != nil {
		if status := c.statusLocked(guildID, entities.SectionGuild); status == StatusClean {
			c.state = state.Reduce(c.state, state.HydrateGuild{GuildID: guildID, Patch: patch})
			c.scheduleLocked()
			applied = true
		} else {
			logger = logger.WithField("status", status)
		}
	}
	c.mu.Unlock()

	if patch != nil && !applied {
		logger.Info("Discarded remote guild settings, section was edited locally")
	} else {
		logger.Debug("Hydrated guild settings")
	}

	externalID, _ := c.deriver.Derive(guildID)
	c.publish(events.GuildHydratedEvent{GuildID: guildID, ExternalID: externalID, Found: applied})
	return nil
}

// Save commits a section. The guild section is hydrated if it was not yet,
// then written to every remote source; on failure the edits stay local, the
// section is marked dirty and the *AggregateError is returned. Other
// sections only exist locally and are stamped right away.
func (c *SettingsConsole) Save(ctx context.Context, guildID string, section entities.SectionName) error {
	if err := c.hydrateBeforeEdit(ctx, guildID, section); err != nil {
		return err
	}

	c.mu.Lock()
	if section != entities.SectionGuild {
		at := c.now()
		c.state = state.Reduce(c.state, state.SaveSection{GuildID: guildID, Section: section, At: at})
		c.setStatusLocked(guildID, section, StatusClean)
		c.scheduleLocked()
		c.mu.Unlock()

		c.publish(events.SettingsSavedEvent{GuildID: guildID, Section: section, SavedAt: at})
		return nil
	}

	if c.statusLocked(guildID, section) == StatusSaving {
		c.mu.Unlock()
		return ErrSaveInProgress
	}
	record, _ := c.state.Record(guildID)
	guild := record.Settings.Guild
	c.setStatusLocked(guildID, section, StatusSaving)
	c.mu.Unlock()

	err := c.persister.Persist(ctx, guildID, guild)

	c.mu.Lock()
	if err != nil {
		c.setStatusLocked(guildID, section, StatusDirty)
		c.mu.Unlock()

		var failures []string
		var aggErr *AggregateError
		if errors.As(err, &aggErr) {
			failures = aggErr.Sources()
		}
		c.publish(events.SettingsSaveFailedEvent{GuildID: guildID, Section: section, Failures: failures})
		return err
	}

	at := c.now()
	c.state = state.Reduce(c.state, state.SaveSection{GuildID: guildID, Section: section, At: at})
	// Edits made while the write was in flight keep the section dirty
	if c.statusLocked(guildID, section) == StatusSaving {
		c.setStatusLocked(guildID, section, StatusClean)
	}
	c.scheduleLocked()
	c.mu.Unlock()

	c.publish(events.SettingsSavedEvent{GuildID: guildID, Section: section, SavedAt: at})
	return nil
}

// hydrateBeforeEdit validates the target and waits for the guild's one-shot
// hydration when the guild section is about to change. Writing the section
// before it holds the remote values would overwrite them with defaults.
func (c *SettingsConsole) hydrateBeforeEdit(ctx context.Context, guildID string, section entities.SectionName) error {
	c.mu.Lock()
	err := c.checkLocked(guildID, section)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if section != entities.SectionGuild {
		return nil
	}
	return c.EnsureHydrated(ctx, guildID)
}

func (c *SettingsConsole) checkLocked(guildID string, section entities.SectionName) error {
	if _, ok := c.state.Record(guildID); !ok {
		return ErrUnknownGuild
	}
	if !section.IsValid() {
		return ErrUnknownSection
	}
	return nil
}

func (c *SettingsConsole) statusLocked(guildID string, section entities.SectionName) SectionStatus {
	if status, ok := c.statuses[guildID][section]; ok {
		return status
	}
	return StatusClean
}

func (c *SettingsConsole) setStatusLocked(guildID string, section entities.SectionName, status SectionStatus) {
	sections, ok := c.statuses[guildID]
	if !ok {
		sections = make(map[entities.SectionName]SectionStatus)
		c.statuses[guildID] = sections
	}
	sections[section] = status
}

func (c *SettingsConsole) scheduleLocked() {
	if c.mirror != nil {
		c.mirror.Schedule(c.state)
	}
}

func (c *SettingsConsole) publish(event events.Event) {
	if c.feedback == nil {
		return
	}
	if err := c.feedback.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
		}).WithError(err).Warn("Failed to publish settings feedback")
	}
}
