package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/traba/cmd/cli/internal/commands"
	"github.com/wolfeidau/traba/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Signup     commands.SignupCmd     `cmd:"" help:"Register a new tenant"`
		Login      commands.LoginCmd      `cmd:"" help:"Sign in and store the session"`
		Logout     commands.LogoutCmd     `cmd:"" help:"Forget the stored session"`
		Whoami     commands.WhoamiCmd     `cmd:"" help:"Show the signed in tenant"`
		Passwd     commands.PasswdCmd     `cmd:"" help:"Change the tenant password"`
		Profiles   commands.ProfilesCmd   `cmd:"" help:"List stored sessions"`
		Individual commands.IndividualCmd `cmd:"" aliases:"ind" help:"Manage individuals"`
		Parent     commands.ParentCmd     `cmd:"" help:"Manage mother and father links"`
		Tree       commands.TreeCmd       `cmd:"" help:"Show the three generation ancestry of an individual"`
		Children   commands.ChildrenCmd   `cmd:"" help:"List the offspring of an individual"`
		Progenitor commands.ProgenitorCmd `cmd:"" help:"Register ancestors"`
		Cross      commands.CrossCmd      `cmd:"" help:"Manage inbreeding crosses"`
		Import     commands.ImportCmd     `cmd:"" help:"Register an individual and its ancestors from a lineage file"`
		Reference  commands.ReferenceCmd  `cmd:"" help:"Show breeds, appearances and the consanguinity table"`

		Server    string `help:"Server URL, overrides the profile" env:"TRABA_SERVER"`
		Profile   string `help:"Stored session to use" env:"TRABA_PROFILE"`
		ConfigDir string `help:"Configuration directory (default ~/.traba)" env:"TRABA_CONFIG_DIR" type:"path"`
		Output    string `help:"Output format" short:"o" default:"table" enum:"table,json,yaml"`
		Debug     bool   `help:"Enable debug mode."`
		Version   kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("traba"),
		kong.Description("Gamecock pedigree registry client."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	logger.Setup(cli.Debug)

	err := cmd.Run(&commands.Globals{
		Debug:     cli.Debug,
		Version:   version,
		Server:    cli.Server,
		Profile:   cli.Profile,
		ConfigDir: cli.ConfigDir,
		Output:    cli.Output,
	})
	cmd.FatalIfErrorf(err)
}
