package db

// Repositories provides access to all database repositories
type Repositories struct {
	Catalog        *CatalogRepository
	ThemedChannels *ThemedChannelRepository
	Overrides      *OverrideRepository
	Schedules      *ScheduleRepository
	Regeneration   *RegenerationRepository
	ChannelNumbers *ChannelNumberRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Catalog:        NewCatalogRepository(db),
		ThemedChannels: NewThemedChannelRepository(db),
		Overrides:      NewOverrideRepository(db),
		Schedules:      NewScheduleRepository(db),
		Regeneration:   NewRegenerationRepository(db),
		ChannelNumbers: NewChannelNumberRepository(db),
	}
}
