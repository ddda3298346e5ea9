package preserve

import (
	"github.com/mvp-joe/typekeep/internal/declaration"
)

// DirStatus is the per-target classification of one artifact directory.
type DirStatus struct {
	Dir     string
	Source  string
	Results map[string]declaration.Result
}

// Status classifies the previous artifact of each directory.
func (p *Preserver) Status(dirs []string) []DirStatus {
	statuses := make([]DirStatus, 0, len(dirs))
	for _, dir := range dirs {
		snap := p.Capture(dir)
		statuses = append(statuses, DirStatus{
			Dir:     dir,
			Source:  snap.Source,
			Results: snap.Results,
		})
	}
	return statuses
}
