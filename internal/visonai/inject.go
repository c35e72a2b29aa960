package visonai

import (
	"html/template"
	"strings"

	"github.com/rs/zerolog/log"
)

// PageKind classifies a rendered page for the script injector.
type PageKind string

const (
	// PageKindPost is a single post.
	PageKindPost PageKind = "post"
	// PageKindCategory is a category archive.
	PageKindCategory PageKind = "category"
	// PageKindPage is a static page.
	PageKindPage PageKind = "page"
	// PageKindOther is anything else, the front page included.
	PageKindOther PageKind = "other"
)

var scriptTemplate = template.Must( //nolint:gochecknoglobals
	template.New("analysis-script").Parse(`<script async src="{{.}}"></script>`),
)

// ShouldInject decides whether the analysis script belongs on a page of the
// given kind. "all" short-circuits every other option; after that at most one
// kind-specific branch can fire.
func ShouldInject(s Settings, kind PageKind) bool {
	if s.AnalysisURL == "" {
		return false
	}

	switch {
	case s.HasOption(ScriptOptionAll):
		return true
	case kind == PageKindPost && s.HasOption(ScriptOptionPost):
		return true
	case kind == PageKindCategory && s.HasOption(ScriptOptionCategories):
		return true
	case kind == PageKindPage && s.HasOption(ScriptOptionPage):
		return true
	default:
		return false
	}
}

// ScriptTag returns the async script element for the page, or nothing.
func ScriptTag(s Settings, kind PageKind) template.HTML {
	if !ShouldInject(s, kind) {
		return ""
	}

	var b strings.Builder
	if err := scriptTemplate.Execute(&b, s.AnalysisURL); err != nil {
		log.Error().Err(err).Str("url", s.AnalysisURL).Msg("failed to render analysis script tag")

		return ""
	}

	return template.HTML(b.String()) //nolint:gosec // built by html/template
}
