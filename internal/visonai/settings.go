// Package visonai holds the rules the gateway adds on top of its stores:
// the request gate in front of every API call, the sanitizer for values
// submitted through the settings form and the analysis script injector used
// while rendering public pages.
//
// Everything in this package is a pure function of its inputs. Callers load a
// Settings snapshot once per request or render and pass it in explicitly.
package visonai

// ScriptOption names a page kind the analysis script is injected on.
type ScriptOption string

const (
	// ScriptOptionAll injects the script on every rendered page.
	ScriptOptionAll ScriptOption = "all"
	// ScriptOptionCategories injects the script on category archive pages.
	ScriptOptionCategories ScriptOption = "categories"
	// ScriptOptionPost injects the script on single post pages.
	ScriptOptionPost ScriptOption = "post"
	// ScriptOptionPage injects the script on static pages.
	ScriptOptionPage ScriptOption = "page"
)

// ScriptOptions lists the recognized options in form order.
var ScriptOptions = []ScriptOption{ //nolint:gochecknoglobals
	ScriptOptionAll,
	ScriptOptionCategories,
	ScriptOptionPost,
	ScriptOptionPage,
}

// Label returns the human readable form label of the option.
func (o ScriptOption) Label() string {
	switch o {
	case ScriptOptionAll:
		return "All"
	case ScriptOptionCategories:
		return "Categories"
	case ScriptOptionPost:
		return "Post"
	case ScriptOptionPage:
		return "Page"
	default:
		return string(o)
	}
}

// IsValid reports whether o is one of the recognized options.
func (o ScriptOption) IsValid() bool {
	for _, known := range ScriptOptions {
		if o == known {
			return true
		}
	}

	return false
}

// Settings is the gateway configuration edited through the admin form.
// ScriptOptions is a set: it only ever holds recognized values, without
// duplicates, in ScriptOptions order.
type Settings struct {
	Token         string         `json:"token"         yaml:"token"`
	AllowedDomain string         `json:"allowedDomain" yaml:"allowedDomain"`
	ScriptOptions []ScriptOption `json:"scriptOptions" yaml:"scriptOptions"`
	AnalysisURL   string         `json:"analysisUrl"   yaml:"analysisUrl"`
}

// HasOption reports whether o is part of the configured script options.
func (s Settings) HasOption(o ScriptOption) bool {
	for _, opt := range s.ScriptOptions {
		if opt == o {
			return true
		}
	}

	return false
}
