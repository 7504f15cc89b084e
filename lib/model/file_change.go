package model

type FileStatus int

const (
	FileStatusUnknown FileStatus = -1
	FileAdded         FileStatus = iota
	FileModified
	FileDeleted
	FileRenamed
)

func (s FileStatus) String() string {
	switch s {
	case FileAdded:
		return "added"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	case FileRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileChange is one file-level change, either inside a single commit or
// aggregated over a range of commits.
type FileChange struct {
	Path       string
	OldPath    string
	Status     FileStatus
	Insertions int
	Deletions  int
}

func NewFileChange(path string) *FileChange {
	return &FileChange{
		Path:       path,
		Status:     FileStatusUnknown,
		Insertions: -1,
		Deletions:  -1,
	}
}

func (f *FileChange) Renamed() bool {
	return f.Status == FileRenamed && f.OldPath != "" && f.OldPath != f.Path
}

// Churn is the total number of changed lines. Unknown counts contribute
// nothing.
func (f *FileChange) Churn() int {
	result := 0
	if f.Insertions > 0 {
		result += f.Insertions
	}
	if f.Deletions > 0 {
		result += f.Deletions
	}
	return result
}
