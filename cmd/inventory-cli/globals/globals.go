package globals

import (
	"context"
	"errors"
	"log/slog"

	"inventory-adapter/internal/auth"
	"inventory-adapter/internal/auth/browser"
	"inventory-adapter/internal/components/chrono"
	"inventory-adapter/internal/components/telemetry"
	"inventory-adapter/internal/config"
	"inventory-adapter/internal/inventory"
	"inventory-adapter/internal/session"
)

type key struct{}

// Value is everything a command needs, built once by the root command.
type Value struct {
	Config     config.Config
	Clock      chrono.API
	Store      *session.SQLiteStore
	Auth       *auth.Manager
	Authorizer *browser.Authorizer
	Inventory  *inventory.Service
	Providers  telemetry.Providers
}

func (v *Value) Close(ctx context.Context) {
	err := errors.Join(v.Store.Close(), v.Providers.Shutdown(ctx))
	if err != nil {
		slog.Warn("shutdown", "err", err)
	}
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}

func Lookup(ctx context.Context) (*Value, bool) {
	value, ok := ctx.Value(key{}).(*Value)
	return value, ok
}
