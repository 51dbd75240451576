package adapter

import "context"

// ScriptAnnotation is the structured output of LLM preprocessing: the source
// text enriched with delivery cues, plus an optional suggested title.
type ScriptAnnotation struct {
	AnnotatedText string `json:"annotatedText"`
	Title         string `json:"title,omitempty"`
}

// ScriptAnnotator is the port for LLM preprocessing. It is strictly an
// enhancement: callers fall back to the raw text on any failure and never
// propagate annotator errors.
type ScriptAnnotator interface {
	Annotate(ctx context.Context, title, text string) (*ScriptAnnotation, error)
}
