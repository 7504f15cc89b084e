package main

import (
	"fmt"

	"github.com/pescuma/scribe/lib/model"
	"github.com/pescuma/scribe/lib/utils"
	"github.com/pescuma/scribe/lib/workspace"
)

type ShowCmd struct {
	Repo  string `default:"." help:"Root of the git repository." type:"existingdir"`
	From  string `help:"Start of the range (exclusive). Empty shows everything cached."`
	To    string `help:"End of the range (inclusive). Default is HEAD."`
	Rules string `help:"YAML file overriding the classification rules." type:"existingfile"`
}

func (c *ShowCmd) Run(ctx *context) error {
	commits, err := ctx.ws.ShowCommits(&workspace.ShowOptions{
		Dir:   c.Repo,
		From:  c.From,
		To:    c.To,
		Rules: c.Rules,
	})
	if err != nil {
		return err
	}

	for _, commit := range commits {
		category := ""
		if commit.Category != model.CategoryNone {
			category = commit.Category.String()
		}

		fmt.Printf("%v  %v  %-10v %v\n",
			commit.ShortHash(),
			commit.Date.Format("2006-01-02"),
			category,
			utils.TruncateText(commit.Subject, 60))
	}

	return nil
}
