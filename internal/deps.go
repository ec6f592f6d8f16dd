package internal

import (
	"bitwise74/files-api/internal/auth"
	"bitwise74/files-api/internal/content"
	"bitwise74/files-api/internal/files"
	"bitwise74/files-api/internal/service"
	"bitwise74/files-api/internal/session"
	"bitwise74/files-api/internal/store"

	"go.uber.org/zap"
)

// Deps is built once in main and handed to every handler
type Deps struct {
	Store    store.Store
	Sessions session.Store
	Content  content.Store
	Broker   service.Broker
	Auth     *auth.Manager
	Files    *files.Repository
	Uploader *service.Uploader
}

// Close stops the workers first, then the stores they use
func (d *Deps) Close() {
	if d.Broker != nil {
		d.Broker.Shutdown()
	}

	if d.Sessions != nil {
		if err := d.Sessions.Close(); err != nil {
			zap.L().Error("Failed to close session store", zap.Error(err))
		}
	}

	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			zap.L().Error("Failed to close database", zap.Error(err))
		}
	}
}
