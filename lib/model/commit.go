package model

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

type Commit struct {
	ID      UUID
	Hash    string
	Subject string
	Body    string
	Author  string
	Date    time.Time

	Insertions int
	Deletions  int

	Files []*FileChange

	// Derived by classification. Not persisted: they depend on the rules in
	// effect when a changelog is generated.
	Type       string
	Scope      string
	IsBreaking bool
	Category   Category
}

func NewCommit(hash string, id *UUID) *Commit {
	var uuid UUID
	if id == nil {
		uuid = NewUUID("c")
	} else {
		uuid = *id
	}

	return &Commit{
		ID:         uuid,
		Hash:       hash,
		Insertions: -1,
		Deletions:  -1,
		Category:   CategoryNone,
	}
}

// FilesImported reports whether the file changes of this commit were already
// extracted, by this run or a previous one hitting the cache.
func (c *Commit) FilesImported() bool {
	return c.Insertions != -1
}

// ShortHash is the abbreviated hash used as the commit identifier in
// changelog entries.
func (c *Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

func (c *Commit) Message() string {
	if c.Body == "" {
		return c.Subject
	}
	return c.Subject + "\n\n" + c.Body
}

func (c *Commit) FilePaths() []string {
	return lo.Map(c.Files, func(f *FileChange, _ int) string {
		return f.Path
	})
}

func (c *Commit) GetFile(path string) *FileChange {
	result, _ := lo.Find(c.Files, func(f *FileChange) bool {
		return f.Path == path
	})
	return result
}

func (c *Commit) AddFile(file *FileChange) *FileChange {
	c.Files = append(c.Files, file)
	return file
}

// SplitMessage splits a raw commit message into subject and body. The
// subject is the first line, the body everything after the first blank
// line.
func SplitMessage(message string) (subject, body string) {
	message = strings.ReplaceAll(message, "\r\n", "\n")

	subject, body, _ = strings.Cut(message, "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}
