package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/pescuma/scribe/lib/changelog"
	"github.com/pescuma/scribe/lib/consoles"
	"github.com/pescuma/scribe/lib/model"
	"github.com/pescuma/scribe/lib/storages"
	"github.com/pescuma/scribe/lib/workspace"
)

type Options struct {
	Port uint
}

func Run(console consoles.Console, storage storages.Storage, opts *Options) error {
	s := newServer(console, opts)

	console.Printf("Loading existing data...\n")

	err := s.load(storage)
	if err != nil {
		return err
	}

	console.Printf("Starting server on port %v...\n", s.opts.Port)

	return s.run()
}

type server struct {
	opts    *Options
	console consoles.Console

	storage  storages.Storage
	repos    *model.Repositories
	sections *model.ChangelogSections

	generator  *changelog.Generator
	classifier *changelog.CommitClassifier
}

func newServer(console consoles.Console, opts *Options) *server {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Port == 0 {
		opts.Port = 7274
	}

	return &server{
		opts:    opts,
		console: console,
	}
}

func (s *server) load(storage storages.Storage) error {
	var err error

	s.storage = storage

	rules, err := s.loadRules(storage)
	if err != nil {
		return err
	}

	s.generator, err = changelog.NewGenerator(rules)
	if err != nil {
		return err
	}

	s.classifier, err = changelog.NewCommitClassifier(rules)
	if err != nil {
		return err
	}

	s.repos, err = storage.LoadRepositories()
	if err != nil {
		return err
	}

	// Categories are derived, not stored, so resolve them upfront for the
	// listings.
	for _, repo := range s.repos.List() {
		for _, commit := range repo.ListCommits() {
			s.classifier.Classify(commit)
		}
	}

	s.sections, err = storage.LoadChangelogSections()
	if err != nil {
		return err
	}

	return nil
}

func (s *server) loadRules(storage storages.Storage) (*changelog.RuleSet, error) {
	cfg, err := storage.LoadConfig()
	if err != nil {
		return nil, err
	}

	file := (*cfg)[workspace.ConfigRulesFile]
	if file == "" {
		return changelog.DefaultRules(), nil
	}

	return changelog.LoadRules(file)
}

func (s *server) run() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	s.initRepos(r)
	s.initChangelog(r)

	return r.Run(fmt.Sprintf(":%v", s.opts.Port))
}
