package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/traba/cmd/server/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool `help:"Enable debug mode." env:"TRABA_DEBUG"`
		Version kong.VersionFlag
		Serve   commands.ServeCmd   `cmd:"" default:"withargs" help:"Start the pedigree API server"`
		Migrate commands.MigrateCmd `cmd:"" help:"Apply PostgreSQL schema migrations"`
		Keygen  commands.KeygenCmd  `cmd:"" help:"Generate a session token signing key"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("traba-server"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
