package resume

import "time"

// Optimization is one stored resume-optimization result. The match score
// is provider-supplied text, kept verbatim apart from percent
// normalization done at parse time.
type Optimization struct {
	ID                   string    `json:"id"`
	MatchScore           string    `json:"match_score"`
	SummaryMessage       string    `json:"summary_message"`
	OriginalImprovements []string  `json:"original_improvements,omitempty"`
	OptimizedResume      string    `json:"optimized_resume"`
	ChangesAnalysis      string    `json:"changes_analysis"`
	Warnings             []string  `json:"warnings,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}
