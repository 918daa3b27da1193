package changelog

import (
	"context"
	"fmt"
	"time"
)

// Builder assembles a Section from commit history.
type Builder struct {
	history  HistoryReader
	rewriter Rewriter
	now      func() time.Time
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithRewriter sets the rewrite stage. A nil rewriter leaves bullets untouched.
func WithRewriter(r Rewriter) BuilderOption {
	return func(b *Builder) {
		b.rewriter = r
	}
}

// WithClock overrides the clock used for the section date.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder reading subjects from history.
func NewBuilder(history HistoryReader, opts ...BuilderOption) *Builder {
	b := &Builder{
		history: history,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build reads the subjects since baseRef and returns the finished section.
// Only a history failure is returned as an error; the rewrite stage cannot
// fail the build.
func (b *Builder) Build(ctx context.Context, version, baseRef string) (Section, error) {
	subjects, err := b.history.Subjects(ctx, baseRef)
	if err != nil {
		return Section{}, fmt.Errorf("reading commit history: %w", err)
	}

	bullets := truncate(NormalizeAll(subjects), PreRewriteLimit)

	if b.rewriter != nil {
		bullets = b.rewriter.Rewrite(ctx, bullets)
	}

	bullets = truncate(bullets, DisplayLimit)
	if len(bullets) == 0 {
		bullets = []string{NoChangesBullet}
	}

	return Section{
		Version: version,
		Date:    b.now().UTC().Format(DateLayout),
		Bullets: bullets,
	}, nil
}

// truncate returns a copy of at most n leading items.
func truncate(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
