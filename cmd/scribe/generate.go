package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"

	"github.com/pescuma/scribe/lib/changelog"
	"github.com/pescuma/scribe/lib/workspace"
)

type GenerateCmd struct {
	From    string   `required:"" help:"Start of the range (exclusive). Usually the previous release tag."`
	To      string   `help:"End of the range (inclusive). Default is HEAD."`
	Version string   `required:"" help:"Version for the section heading."`
	Date    string   `help:"Release date for the section heading. Default is today."`
	Repo    string   `default:"." help:"Root of the git repository." type:"existingdir"`
	Output  string   `short:"o" help:"File to write the result to. Default is the configured output.file, or stdout." type:"path"`
	Mode    string   `default:"section" enum:"section,full" help:"section renders only the new section, full merges it into the changelog document."`
	Rules   string   `help:"YAML file overriding the classification rules." type:"existingfile"`
	Files   []string `help:"Globs limiting the files to consider. Prefix with ! to exclude."`
}

func (c *GenerateCmd) Run(ctx *context) error {
	if !semver.IsValid(c.Version) && !semver.IsValid("v"+c.Version) {
		return fmt.Errorf("invalid version '%v': expected a semantic version, like 1.2.3", c.Version)
	}

	date := c.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	section, err := ctx.ws.Generate(&workspace.GenerateOptions{
		Dir:     c.Repo,
		From:    c.From,
		To:      c.To,
		Version: c.Version,
		Date:    date,
		Files:   c.Files,
		Rules:   c.Rules,
	})
	if err != nil {
		return err
	}

	if section.CountEntries() == 0 && section.FilesChanged == 0 {
		ctx.ws.Console().Warnf("no changes found between %v and %v\n", section.FromRef, section.ToRef)
	}

	output := c.Output
	if output == "" {
		output, err = ctx.ws.GetConfig(workspace.ConfigOutputFile)
		if err != nil {
			return err
		}
	}

	existing := ""
	if changelog.Mode(c.Mode) == changelog.ModeFull && output != "" {
		content, err := os.ReadFile(output)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		existing = string(content)
	}

	result := changelog.Format(section, changelog.Mode(c.Mode), existing)

	if output == "" {
		fmt.Print(result)
		return nil
	}

	return os.WriteFile(output, []byte(result), 0o644)
}
