package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/brickstore/brickstore/config"
	"github.com/brickstore/brickstore/internal/collection"
	"github.com/brickstore/brickstore/internal/store"
)

// StoreProvider provides the remote store handle
type StoreProvider interface {
	Store() store.Store
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CollectionProvider provides the collection client and its list cache
type CollectionProvider interface {
	Collection() *collection.Service
	Cache() *collection.Cache
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// EventsProvider provides the collection event bus
type EventsProvider interface {
	Events() EventBus.Bus
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	StoreProvider
	ConfigProvider
	CollectionProvider
	SchedulerProvider
	EventsProvider

	// SystemStatus reports process and collection figures for the status page
	SystemStatus() SystemStatus
}
