package subtitles

// Candidate represents a subtitle search result returned by the remote
// service. Read-only to the selection and pipeline code.
type Candidate struct {
	ID        string
	FileID    int64
	Language  string
	Score     float64
	FileName  string
	Release   string
	Downloads int
}

// Group collects the candidates chosen for one language.
type Group struct {
	Language   string
	Candidates []Candidate
}

// Selection is the ordered set of candidates chosen for download,
// grouped by language.
type Selection struct {
	Groups []Group
}

// Empty reports whether no candidate was selected.
func (s Selection) Empty() bool {
	for _, group := range s.Groups {
		if len(group.Candidates) > 0 {
			return false
		}
	}
	return true
}

// Count returns the total number of selected candidates.
func (s Selection) Count() int {
	total := 0
	for _, group := range s.Groups {
		total += len(group.Candidates)
	}
	return total
}
