package sentiment

import "sync"

// ColumnCandidates lists header names recognised when auto-detecting review columns.
type ColumnCandidates struct {
	Text  []string `json:"text" yaml:"text"`
	Title []string `json:"title" yaml:"title"`
	Index []string `json:"index" yaml:"index"`
}

var (
	columnCandidatesMu  sync.RWMutex
	activeColumnOptions = defaultColumnCandidates()
)

func defaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Text:  []string{"review", "reviewtext", "review_text", "text", "content", "body", "comment"},
		Title: []string{"title", "summary", "headline"},
		Index: []string{"id", "index", "review_id", "no"},
	}
}

// DefaultColumnCandidates returns the built-in column detection candidates.
func DefaultColumnCandidates() ColumnCandidates {
	return defaultColumnCandidates().clone()
}

// SetColumnCandidates replaces the candidates used during auto-detection.
// Nil fields keep the built-in defaults.
func SetColumnCandidates(candidates ColumnCandidates) {
	columnCandidatesMu.Lock()
	defer columnCandidatesMu.Unlock()
	activeColumnOptions = candidates.withDefaults()
}

func getColumnCandidates() ColumnCandidates {
	columnCandidatesMu.RLock()
	defer columnCandidatesMu.RUnlock()
	return activeColumnOptions.clone()
}

func (c ColumnCandidates) withDefaults() ColumnCandidates {
	defaults := defaultColumnCandidates()
	return ColumnCandidates{
		Text:  pickStrings(c.Text, defaults.Text),
		Title: pickStrings(c.Title, defaults.Title),
		Index: pickStrings(c.Index, defaults.Index),
	}
}

func (c ColumnCandidates) clone() ColumnCandidates {
	return ColumnCandidates{
		Text:  cloneStrings(c.Text),
		Title: cloneStrings(c.Title),
		Index: cloneStrings(c.Index),
	}
}

func pickStrings(custom, fallback []string) []string {
	if custom == nil {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
