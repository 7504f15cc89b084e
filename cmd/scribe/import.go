package main

import (
	"time"

	"github.com/pescuma/scribe/lib/importers/git"
)

type ImportCmd struct {
	Paths        []string      `arg:"" help:"Paths with the roots of git repositories." type:"existingpath"`
	Branch       string        `help:"Git branch to use to import data."`
	Incremental  bool          `default:"true" negatable:"" help:"Don't import commits already imported."`
	LimitCommits int           `help:"Limit the number of commits to be imported. Counted from the latest commit."`
	SaveEvery    time.Duration `default:"10m" help:"Save results while processing to avoid losing work."`
}

func (c *ImportCmd) Run(ctx *context) error {
	return ctx.ws.ImportGitHistory(c.Paths, &git.HistoryOptions{
		Branch:      c.Branch,
		Incremental: c.Incremental,
		MaxCommits:  toOption(c.LimitCommits),
		SaveEvery:   toOption(c.SaveEvery),
	})
}

func toOption[T comparable](d T) *T {
	var def T

	if d == def {
		return nil
	} else {
		return &d
	}
}
