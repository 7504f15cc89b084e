package changelog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"

	"github.com/pescuma/scribe/lib/model"
)

type Mode string

const (
	// ModeSection renders only the section for the requested version.
	ModeSection Mode = "section"
	// ModeFull merges the section into an existing changelog document.
	ModeFull Mode = "full"
)

var pluralizer = pluralize.NewClient()

var versionHeadingRe = regexp.MustCompile(`(?m)^## `)

const documentHeader = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).
`

// Format renders the section in the requested mode. In ModeFull the
// existing document contents are passed in existing; an empty string means
// the document does not exist yet.
func Format(section *model.ChangelogSection, mode Mode, existing string) string {
	rendered := FormatSection(section)

	if mode == ModeFull {
		return MergeIntoDocument(rendered, existing)
	}

	return rendered
}

// FormatSection renders one changelog section: the version heading, one
// block per non-empty category in canonical order, and the stats footer.
func FormatSection(section *model.ChangelogSection) string {
	result := strings.Builder{}

	version := section.Version
	if version == "" {
		version = "Unreleased"
	}

	if section.Date != "" {
		result.WriteString(fmt.Sprintf("## [%v] - %v\n", version, section.Date))
	} else {
		result.WriteString(fmt.Sprintf("## [%v]\n", version))
	}

	for _, category := range model.Categories() {
		entries := section.EntriesIn(category)
		if len(entries) == 0 {
			continue
		}

		result.WriteString("\n### " + category.Heading() + "\n")
		for _, entry := range entries {
			result.WriteString("- " + entry.Description + "\n")
		}
	}

	result.WriteString("\n" + statsLine(section) + "\n")

	return result.String()
}

func statsLine(section *model.ChangelogSection) string {
	return fmt.Sprintf("_(%v %v changed, +%v/-%v lines)_",
		humanize.Comma(int64(section.FilesChanged)),
		pluralizer.Pluralize("file", section.FilesChanged, false),
		humanize.Comma(int64(section.Insertions)),
		humanize.Comma(int64(section.Deletions)))
}

// MergeIntoDocument inserts a rendered section into an existing changelog
// document, right before the first version heading. A document without
// version headings gets the section appended after the preamble, and an
// empty document gets the standard Keep a Changelog header first.
func MergeIntoDocument(section string, existing string) string {
	section = strings.TrimRight(section, "\n") + "\n"

	if strings.TrimSpace(existing) == "" {
		return documentHeader + "\n" + section
	}

	loc := versionHeadingRe.FindStringIndex(existing)
	if loc == nil {
		return strings.TrimRight(existing, "\n") + "\n\n" + section
	}

	return existing[:loc[0]] + section + "\n" + existing[loc[0]:]
}
