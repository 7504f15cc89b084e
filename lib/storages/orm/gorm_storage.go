package orm

import (
	"log"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/pescuma/scribe/lib/consoles"
	"github.com/pescuma/scribe/lib/model"
	"github.com/pescuma/scribe/lib/storages"
)

type sqlTable interface {
	CacheKey() string
}

type gormStorage struct {
	mutex   sync.RWMutex
	db      *gorm.DB
	console consoles.Console

	repos    *model.Repositories
	sections *model.ChangelogSections
	config   *map[string]string

	sqlConfigs     map[string]*sqlConfig
	sqlRepos       map[string]*sqlRepository
	sqlCommits     map[string]*sqlCommit
	sqlCommitFiles map[string]*sqlCommitFile
	sqlSections    map[string]*sqlChangelogSection
}

func NewGormStorage(d gorm.Dialector, console consoles.Console) (storages.Storage, error) {
	// Logs go to stderr because generate streams the changelog to stdout.
	l := logger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{
		NamingStrategy: &NamingStrategy{},
		Logger:         l,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&sqlConfig{},
		&sqlRepository{},
		&sqlCommit{}, &sqlCommitFile{},
		&sqlChangelogSection{},
	)
	if err != nil {
		return nil, err
	}

	return &gormStorage{
		db:      db,
		console: console,
	}, nil
}

func (s *gormStorage) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func createCache[T sqlTable](rows []T) map[string]T {
	return lo.Associate(rows, func(i T) (string, T) {
		return i.CacheKey(), i
	})
}

func (s *gormStorage) LoadRepositories() (*model.Repositories, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.repos != nil {
		return s.repos, nil
	}

	s.console.Printf("Loading repositories...\n")

	result := model.NewRepositories()

	var repos []*sqlRepository
	err := s.db.Find(&repos).Error
	if err != nil {
		return nil, err
	}

	s.sqlRepos = createCache(repos)

	var commits []*sqlCommit
	err = s.db.Find(&commits).Error
	if err != nil {
		return nil, err
	}

	s.sqlCommits = createCache(commits)

	var files []*sqlCommitFile
	err = s.db.Find(&files).Error
	if err != nil {
		return nil, err
	}

	s.sqlCommitFiles = createCache(files)

	for _, sr := range repos {
		r := result.GetOrCreateEx(sr.RootDir, &sr.ID)
		r.Name = sr.Name
		r.VCS = sr.VCS
		r.Branch = sr.Branch
		r.Data = decodeMap(sr.Data)
		r.FirstSeen = sr.FirstSeen
		r.LastSeen = sr.LastSeen
	}

	commitsByID := map[model.UUID]*model.Commit{}
	for _, sc := range commits {
		repo := result.GetByID(sc.RepositoryID)

		c := repo.GetOrCreateCommitEx(sc.Hash, &sc.ID)
		c.Subject = sc.Subject
		c.Body = sc.Body
		c.Author = sc.Author
		c.Date = sc.Date
		c.Insertions = decodeMetric(sc.Insertions)
		c.Deletions = decodeMetric(sc.Deletions)

		commitsByID[c.ID] = c
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].CommitID == files[j].CommitID {
			return files[i].Path < files[j].Path
		}
		return files[i].CommitID < files[j].CommitID
	})
	for _, sf := range files {
		commit := commitsByID[sf.CommitID]

		f := model.NewFileChange(sf.Path)
		f.OldPath = sf.OldPath
		f.Status = sf.Status
		f.Insertions = decodeMetric(sf.Insertions)
		f.Deletions = decodeMetric(sf.Deletions)

		commit.AddFile(f)
	}

	s.repos = result
	return result, nil
}

func (s *gormStorage) WriteRepository(repo *model.Repository) error {
	if s.repos == nil {
		return errors.New("repos not loaded")
	}

	return s.writeRepositories([]*model.Repository{repo})
}

func (s *gormStorage) writeRepositories(repos []*model.Repository) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sqlRepos := prepareChanges(repos, newSqlRepository, &s.sqlRepos)

	var sqlCommits []*sqlCommit
	var sqlCommitFiles []*sqlCommitFile
	for _, repo := range repos {
		for _, c := range repo.ListCommits() {
			sc := newSqlCommit(repo, c)
			if prepareChange(&s.sqlCommits, sc) {
				sqlCommits = append(sqlCommits, sc)
			}

			for _, f := range c.Files {
				cf := newSqlCommitFile(c, f)
				if prepareChange(&s.sqlCommitFiles, cf) {
					sqlCommitFiles = append(sqlCommitFiles, cf)
				}
			}
		}
	}

	now := time.Now().Local()
	db := s.db.Session(&gorm.Session{
		NowFunc:         func() time.Time { return now },
		CreateBatchSize: 300,
	})

	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sqlRepos).Error
	if err != nil {
		return err
	}

	addList(&s.sqlRepos, sqlRepos)

	err = db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sqlCommits).Error
	if err != nil {
		return err
	}

	addList(&s.sqlCommits, sqlCommits)

	err = db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sqlCommitFiles).Error
	if err != nil {
		return err
	}

	addList(&s.sqlCommitFiles, sqlCommitFiles)

	return nil
}

func (s *gormStorage) WriteCommits(repo *model.Repository, commits []*model.Commit) error {
	if s.repos == nil {
		return errors.New("repos not loaded")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	var sqlCommits []*sqlCommit
	var sqlCommitFiles []*sqlCommitFile
	for _, c := range commits {
		sc := newSqlCommit(repo, c)
		if prepareChange(&s.sqlCommits, sc) {
			sqlCommits = append(sqlCommits, sc)
		}

		for _, f := range c.Files {
			cf := newSqlCommitFile(c, f)
			if prepareChange(&s.sqlCommitFiles, cf) {
				sqlCommitFiles = append(sqlCommitFiles, cf)
			}
		}
	}

	now := time.Now().Local()
	db := s.db.Session(&gorm.Session{
		NowFunc:         func() time.Time { return now },
		CreateBatchSize: 300,
	})

	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sqlCommits).Error
	if err != nil {
		return err
	}

	addList(&s.sqlCommits, sqlCommits)

	err = db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sqlCommitFiles).Error
	if err != nil {
		return err
	}

	addList(&s.sqlCommitFiles, sqlCommitFiles)

	return nil
}

func (s *gormStorage) LoadChangelogSections() (*model.ChangelogSections, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.sections != nil {
		return s.sections, nil
	}

	s.console.Printf("Loading changelog sections...\n")

	result := model.NewChangelogSections()

	var sections []*sqlChangelogSection
	err := s.db.Find(&sections).Error
	if err != nil {
		return nil, err
	}

	s.sqlSections = createCache(sections)

	for _, ss := range sections {
		sec := result.GetOrCreateEx(ss.RepositoryID, &ss.ID)
		sec.FromRef = ss.FromRef
		sec.ToRef = ss.ToRef
		sec.Version = ss.Version
		sec.Date = ss.Date
		sec.Entries = ss.Entries
		sec.FilesChanged = ss.FilesChanged
		sec.Insertions = ss.Insertions
		sec.Deletions = ss.Deletions
		sec.CreatedAt = ss.CreatedAt
	}

	s.sections = result
	return result, nil
}

func (s *gormStorage) WriteChangelogSection(section *model.ChangelogSection) error {
	if s.sections == nil {
		return errors.New("changelog sections not loaded")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sqlSections := prepareChanges([]*model.ChangelogSection{section}, newSqlChangelogSection, &s.sqlSections)

	now := time.Now().Local()
	db := s.db.Session(&gorm.Session{
		NowFunc:         func() time.Time { return now },
		CreateBatchSize: 300,
	})

	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sqlSections).Error
	if err != nil {
		return err
	}

	addList(&s.sqlSections, sqlSections)

	return nil
}

func (s *gormStorage) LoadConfig() (*map[string]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.config != nil {
		return s.config, nil
	}

	s.console.Printf("Loading config...\n")

	result := map[string]string{}

	var sqlConfigs []*sqlConfig
	err := s.db.Find(&sqlConfigs).Error
	if err != nil {
		return nil, err
	}

	s.sqlConfigs = createCache(sqlConfigs)

	for _, sc := range sqlConfigs {
		result[sc.Key] = sc.Value
	}

	s.config = &result
	return &result, nil
}

func (s *gormStorage) WriteConfig() error {
	if s.config == nil {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	var sqlConfigs []*sqlConfig
	for k, v := range *s.config {
		sc := newSqlConfig(k, v)
		if prepareChange(&s.sqlConfigs, sc) {
			sqlConfigs = append(sqlConfigs, sc)
		}
	}

	now := time.Now().Local()
	db := s.db.Session(&gorm.Session{
		NowFunc:         func() time.Time { return now },
		CreateBatchSize: 300,
	})

	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sqlConfigs).Error
	if err != nil {
		return err
	}

	addList(&s.sqlConfigs, sqlConfigs)

	return nil
}

func addList[T sqlTable](target *map[string]T, toAdd []T) {
	for _, v := range toAdd {
		(*target)[v.CacheKey()] = v
	}
}

func prepareChanges[S sqlTable, M any](models []M, toSql func(M) S, cache *map[string]S) []S {
	var result []S
	for _, m := range models {
		s := toSql(m)
		if prepareChange(cache, s) {
			result = append(result, s)
		}
	}
	return result
}

func prepareChange[T sqlTable](byID *map[string]T, n T) bool {
	o, ok := (*byID)[n.CacheKey()]
	if ok {
		ro := reflect.Indirect(reflect.ValueOf(o))
		rn := reflect.Indirect(reflect.ValueOf(n))

		rn.FieldByName("CreatedAt").Set(ro.FieldByName("CreatedAt"))
		rn.FieldByName("UpdatedAt").Set(ro.FieldByName("UpdatedAt"))
	}

	if reflect.DeepEqual(n, o) {
		return false
	} else {
		(*byID)[n.CacheKey()] = n
		return true
	}
}

func compositeKey(ids ...string) string {
	return strings.Join(ids, "\n")
}
