package changelog

import "context"

const (
	// PreRewriteLimit bounds the bullets handed to the rewrite stage.
	PreRewriteLimit = 12

	// DisplayLimit bounds the bullets in a finished section.
	DisplayLimit = 10

	// NoChangesBullet is the sentinel used when no bullet survives filtering.
	NoChangesBullet = "No notable changes."

	// DateLayout is the UTC date stamp format of a section heading.
	DateLayout = "2006-01-02"
)

// Section is one rendered unit of release notes.
// The Version is the caller's string verbatim; Date is a UTC calendar date
// formatted with DateLayout. Bullets always holds at least one entry.
type Section struct {
	Version string
	Date    string
	Bullets []string
}

// HistoryReader supplies raw commit subjects, newest first.
// An empty baseRef means the full history.
type HistoryReader interface {
	Subjects(ctx context.Context, baseRef string) ([]string, error)
}

// Rewriter optionally rewrites a bullet set. Implementations must never fail:
// on any problem they return the input unchanged.
type Rewriter interface {
	Rewrite(ctx context.Context, bullets []string) []string
}

// HistoryFunc adapts a plain function to HistoryReader.
type HistoryFunc func(ctx context.Context, baseRef string) ([]string, error)

// Subjects calls f.
func (f HistoryFunc) Subjects(ctx context.Context, baseRef string) ([]string, error) {
	return f(ctx, baseRef)
}
