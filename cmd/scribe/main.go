package main

import (
	"github.com/alecthomas/kong"

	"github.com/pescuma/scribe/lib/workspace"
)

var cli struct {
	Workspace string `short:"w" help:"Workspace to store data. Default is ./.scribe or ~/.scribe if that does not exist." type:"path"`

	Generate GenerateCmd `cmd:"" help:"Generate a changelog section from a range of the git history."`
	Import   ImportCmd   `cmd:"" help:"Import and cache the git history of repositories."`
	Show     ShowCmd     `cmd:"" help:"Show cached commits with their categories."`

	Config struct {
		Set ConfigSetCmd `cmd:"" help:"Set configuration parameters."`
	} `cmd:""`

	Server ServerCmd `cmd:"" help:"Start the REST preview server."`
	Git    RunGitCmd `cmd:"" help:"Run a git command on all repositories in the workspace."`
}

type context struct {
	ws *workspace.Workspace
}

func main() {
	ctx := kong.Parse(&cli, kong.ShortUsageOnError())

	ws, err := workspace.NewWorkspace(cli.Workspace)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&context{
		ws: ws,
	})
	ctx.FatalIfErrorf(err)
}
