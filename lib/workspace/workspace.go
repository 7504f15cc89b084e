package workspace

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/abiosoft/lineprefix"

	"github.com/pescuma/scribe/lib/changelog"
	"github.com/pescuma/scribe/lib/consoles"
	"github.com/pescuma/scribe/lib/filters"
	"github.com/pescuma/scribe/lib/importers/git"
	"github.com/pescuma/scribe/lib/model"
	"github.com/pescuma/scribe/lib/storages"
	"github.com/pescuma/scribe/lib/storages/orm"
	"github.com/pescuma/scribe/lib/utils"
)

// Config keys understood by the commands.
const (
	ConfigRulesFile  = "rules.file"
	ConfigOutputFile = "output.file"
)

type Workspace struct {
	console consoles.Console
	storage storages.Storage
}

func NewWorkspace(file string) (*Workspace, error) {
	if file == "" {
		if _, err := os.Stat("./.scribe"); err == nil {
			file = "./.scribe/scribe.sqlite"
		} else {
			file = "~/.scribe/scribe.sqlite"
		}
	}

	// The console writes to stderr: stdout is reserved for command output,
	// like the generated changelog.
	console := consoles.NewStdErrConsole()

	var storage storages.Storage
	var err error
	switch {
	case file == ":memory:":
		storage, err = orm.NewGormStorage(orm.WithSqliteInMemory(), console)

	case strings.HasSuffix(file, ".sqlite"):
		file, err = utils.PathAbs(file)
		if err != nil {
			return nil, err
		}

		err = createWorkspaceDir(console, file)
		if err != nil {
			return nil, err
		}

		storage, err = orm.NewGormStorage(orm.WithSqlite(file), console)

	default:
		return nil, fmt.Errorf("unknown storage type for file %v", file)
	}
	if err != nil {
		return nil, err
	}

	return &Workspace{
		console: console,
		storage: storage,
	}, nil
}

func createWorkspaceDir(console consoles.Console, file string) error {
	path := filepath.Dir(file)

	if _, err := os.Stat(path); err != nil {
		console.Printf("Creating workspace at %v\n", path)
		err = os.MkdirAll(path, 0o700)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *Workspace) Close() error {
	return w.storage.Close()
}

func (w *Workspace) Console() consoles.Console {
	return w.console
}

func (w *Workspace) Execute(f func(consoles.Console, storages.Storage) error) error {
	return f(w.console, w.storage)
}

func (w *Workspace) LoadRepositories() (*model.Repositories, error) {
	return w.storage.LoadRepositories()
}

func (w *Workspace) LoadChangelogSections() (*model.ChangelogSections, error) {
	return w.storage.LoadChangelogSections()
}

type GenerateOptions struct {
	Dir     string
	From    string
	To      string
	Version string
	Date    string
	Files   []string
	Rules   string
}

// Preview classifies the changes of a range without recording the section.
// The extracted history is still cached, so repeated runs stay fast.
func (w *Workspace) Preview(opts *GenerateOptions) (*model.ChangelogSection, error) {
	generator, err := w.newGenerator(opts.Rules)
	if err != nil {
		return nil, err
	}

	source, err := w.openHistorySource(opts.Dir)
	if err != nil {
		return nil, err
	}

	to := opts.To
	if to == "" {
		to = "HEAD"
	}

	commits, err := source.ListCommits(opts.From, to)
	if err != nil {
		return nil, err
	}

	fileChanges, err := source.ListFileChanges(opts.From, to)
	if err != nil {
		return nil, err
	}

	filter, err := filters.ParsePathFilter(opts.Files)
	if err != nil {
		return nil, err
	}

	commits = filters.FilterCommits(filter, commits)
	fileChanges = filters.FilterFileChanges(filter, fileChanges)

	repo := source.Repository()

	section := generator.Generate(repo.ID, fileChanges, commits, opts.Version, opts.Date)
	section.FromRef = opts.From
	section.ToRef = to

	err = w.storage.WriteRepository(repo)
	if err != nil {
		return nil, err
	}

	return section, nil
}

// Generate classifies the range and records the resulting section.
func (w *Workspace) Generate(opts *GenerateOptions) (*model.ChangelogSection, error) {
	section, err := w.Preview(opts)
	if err != nil {
		return nil, err
	}

	sections, err := w.storage.LoadChangelogSections()
	if err != nil {
		return nil, err
	}

	section.CreatedAt = time.Now().UTC().Round(time.Second)
	sections.Add(section)

	err = w.storage.WriteChangelogSection(section)
	if err != nil {
		return nil, err
	}

	return section, nil
}

func (w *Workspace) ImportGitHistory(dirs []string, opts *git.HistoryOptions) error {
	importer := git.NewHistoryImporter(w.console, w.storage)
	return importer.Import(dirs, opts)
}

type ShowOptions struct {
	Dir   string
	From  string
	To    string
	Rules string
}

// ShowCommits lists the commits of a range, newest first, with their
// resolved categories. Without a from ref it lists everything cached for
// the repository.
func (w *Workspace) ShowCommits(opts *ShowOptions) ([]*model.Commit, error) {
	rules, err := w.loadRules(opts.Rules)
	if err != nil {
		return nil, err
	}

	classifier, err := changelog.NewCommitClassifier(rules)
	if err != nil {
		return nil, err
	}

	source, err := w.openHistorySource(opts.Dir)
	if err != nil {
		return nil, err
	}

	var commits []*model.Commit
	if opts.From != "" {
		to := opts.To
		if to == "" {
			to = "HEAD"
		}

		commits, err = source.ListCommits(opts.From, to)
		if err != nil {
			return nil, err
		}

		err = w.storage.WriteRepository(source.Repository())
		if err != nil {
			return nil, err
		}

	} else {
		commits = source.Repository().ListCommits()
	}

	for _, c := range commits {
		classifier.Classify(c)
	}

	return commits, nil
}

func (w *Workspace) SetConfig(key string, value string) (bool, error) {
	cfg, err := w.storage.LoadConfig()
	if err != nil {
		return false, err
	}

	v, ok := (*cfg)[key]
	if ok && v == value {
		return false, nil
	}

	(*cfg)[key] = value

	return true, w.storage.WriteConfig()
}

func (w *Workspace) GetConfig(key string) (string, error) {
	cfg, err := w.storage.LoadConfig()
	if err != nil {
		return "", err
	}

	return (*cfg)[key], nil
}

func (w *Workspace) RunGit(args ...string) error {
	repos, err := w.storage.LoadRepositories()
	if err != nil {
		return err
	}

	for _, repo := range repos.List() {
		if repo.VCS != "git" {
			continue
		}

		cmd := exec.Command("git", args...)
		cmd.Dir = repo.RootDir

		w.console.Printf("%v: Executing '%v'\n", repo.Name, strings.Join(cmd.Args, "' '"))
		w.console.PushPrefix("%v: ", repo.Name)

		prefix := lineprefix.PrefixFunc(func() string {
			return w.console.Prepare("")
		})

		cmd.Stdin = os.Stdin
		cmd.Stdout = lineprefix.New(lineprefix.Writer(os.Stdout), prefix)
		cmd.Stderr = lineprefix.New(lineprefix.Writer(os.Stderr), prefix)

		_ = cmd.Run()

		w.console.PopPrefix()
	}

	return nil
}

func (w *Workspace) openHistorySource(dir string) (*git.HistorySource, error) {
	repos, err := w.storage.LoadRepositories()
	if err != nil {
		return nil, err
	}

	if dir == "" {
		dir = "."
	}

	return git.NewHistorySource(w.console, repos, dir)
}

func (w *Workspace) loadRules(file string) (*changelog.RuleSet, error) {
	if file == "" {
		cfg, err := w.storage.LoadConfig()
		if err != nil {
			return nil, err
		}

		file = (*cfg)[ConfigRulesFile]
	}

	if file == "" {
		return changelog.DefaultRules(), nil
	}

	return changelog.LoadRules(file)
}

func (w *Workspace) newGenerator(rulesFile string) (*changelog.Generator, error) {
	rules, err := w.loadRules(rulesFile)
	if err != nil {
		return nil, err
	}

	return changelog.NewGenerator(rules)
}
