package llm

import (
	"context"

	"voiceover-studio/internal/domain/ports/adapter"
)

var _ adapter.ScriptAnnotator = (*NoopAnnotator)(nil)

// NoopAnnotator passes the script through untouched. Used when no LLM
// provider is configured; generation behaves as if annotation always
// fell back.
type NoopAnnotator struct{}

func NewNoopAnnotator() *NoopAnnotator {
	return &NoopAnnotator{}
}

func (n *NoopAnnotator) Annotate(ctx context.Context, title, text string) (*adapter.ScriptAnnotation, error) {
	return &adapter.ScriptAnnotation{AnnotatedText: text}, nil
}
