package app

import (
	"github.com/go-chi/oauth"
	"github.com/kassemabbassi/formBuilder/config"
	"github.com/kassemabbassi/formBuilder/realtime"
	"github.com/kassemabbassi/formBuilder/store"
)

// App bundles everything request handlers need.
type App struct {
	*store.Store
	*oauth.BearerServer
	config.Config
	Broker *realtime.Broker
}
