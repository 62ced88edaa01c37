package handler

import (
	"voyago/internal/app/session"
	"voyago/internal/app/store"
	"voyago/internal/configs"
	"voyago/internal/pkg/views"
)

// AppDeps bundles the collaborators every handler needs.
type AppDeps struct {
	Config   *configs.AppConfig
	Sessions *session.Manager

	// Store is nil when the database connection could not be established at
	// startup; store-backed handlers must check for that and respond with a
	// 500-class outcome instead of crashing.
	Store store.Store

	Views *views.Renderer
}
