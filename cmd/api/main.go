package main

import (
	"context"

	"github.com/alecthomas/kong"
)

var (
	version = "dev"
	cli     struct {
		Version kong.VersionFlag
		Serve   ServeCmd   `cmd:"" default:"1" help:"Run migrations and start the HTTP API."`
		Migrate MigrateCmd `cmd:"" help:"Apply database migrations and exit."`
	}
)

// Globals are shared by every command.
type Globals struct {
	Version string
}

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("agenda"),
		kong.Description("Multi-tenant appointment booking API."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&Globals{Version: version})
	cmd.FatalIfErrorf(err)
}
