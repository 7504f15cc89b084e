package git

import (
	"context"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/scribe/lib/linediff"
	"github.com/pescuma/scribe/lib/model"
)

type treeChange struct {
	fileChange *model.FileChange
	from       *object.File
	to         *object.File
}

// diffTrees lists the files that differ between two commits, with rename
// detection. Line counts are filled later by computeLines, which is the
// expensive part and can run in parallel.
func diffTrees(fromCommit, toCommit *object.Commit) ([]*treeChange, error) {
	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree of %v", fromCommit.Hash)
	}

	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree of %v", toCommit.Hash)
	}

	gitChanges, err := object.DiffTreeWithOptions(context.Background(), fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, errors.Wrapf(err, "diffing trees of %v and %v", fromCommit.Hash, toCommit.Hash)
	}

	var result []*treeChange
	for _, gitChange := range gitChanges {
		fromFile, toFile, err := gitChange.Files()
		if err != nil {
			return nil, errors.Wrapf(err, "loading changed files of %v", toCommit.Hash)
		}

		if fromFile == nil && toFile == nil {
			// Submodule change
			continue
		}

		var fc *model.FileChange
		switch {
		case fromFile == nil:
			fc = model.NewFileChange(gitChange.To.Name)
			fc.Status = model.FileAdded

		case toFile == nil:
			fc = model.NewFileChange(gitChange.From.Name)
			fc.Status = model.FileDeleted

		case gitChange.From.Name != gitChange.To.Name:
			fc = model.NewFileChange(gitChange.To.Name)
			fc.OldPath = gitChange.From.Name
			fc.Status = model.FileRenamed

		default:
			fc = model.NewFileChange(gitChange.To.Name)
			fc.Status = model.FileModified
		}

		result = append(result, &treeChange{fileChange: fc, from: fromFile, to: toFile})
	}

	return result, nil
}

func rootChanges(gitCommit *object.Commit) ([]*treeChange, error) {
	gitTree, err := gitCommit.Tree()
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree of %v", gitCommit.Hash)
	}

	var result []*treeChange
	err = gitTree.Files().ForEach(func(gitFile *object.File) error {
		fc := model.NewFileChange(gitFile.Name)
		fc.Status = model.FileAdded

		result = append(result, &treeChange{fileChange: fc, to: gitFile})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing tree of %v", gitCommit.Hash)
	}

	return result, nil
}

// commitChanges lists what a commit changed compared to its first parent.
func commitChanges(gitCommit *object.Commit) ([]*treeChange, error) {
	if gitCommit.NumParents() == 0 {
		return rootChanges(gitCommit)
	}

	gitParent, err := gitCommit.Parent(0)
	if err != nil {
		return nil, errors.Wrapf(err, "loading parent of %v", gitCommit.Hash)
	}

	return diffTrees(gitParent, gitCommit)
}

func (c *treeChange) computeLines() error {
	toContent, toBinary, err := fileContent(c.to)
	if err != nil {
		return err
	}

	fromContent, fromBinary, err := fileContent(c.from)
	if err != nil {
		return err
	}

	fc := c.fileChange

	if toBinary || fromBinary {
		fc.Insertions = 0
		fc.Deletions = 0
		return nil
	}

	switch {
	case fc.Status == model.FileAdded:
		fc.Insertions = countLines(toContent)
		fc.Deletions = 0

	case fc.Status == model.FileDeleted:
		fc.Insertions = 0
		fc.Deletions = countLines(fromContent)

	case c.from.Hash == c.to.Hash:
		// Pure rename
		fc.Insertions = 0
		fc.Deletions = 0

	default:
		fc.Insertions, fc.Deletions = linediff.Count(fromContent, toContent, time.Minute)
	}

	return nil
}

func fileContent(f *object.File) (string, bool, error) {
	if f == nil {
		return "", false, nil
	}

	isBinary, err := f.IsBinary()
	if err != nil {
		return "", false, err
	}

	if isBinary {
		return "", true, nil
	}

	content, err := f.Contents()
	if err != nil {
		return "", false, err
	}

	return content, isBinary, nil
}

func countLines(text string) int {
	if text == "" {
		return 0
	}

	result := strings.Count(text, "\n")
	if text[len(text)-1] != '\n' {
		result++
	}
	return result
}

func toFileChanges(changes []*treeChange) []*model.FileChange {
	return lo.Map(changes, func(c *treeChange, _ int) *model.FileChange {
		return c.fileChange
	})
}
