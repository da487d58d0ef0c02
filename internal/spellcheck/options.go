package spellcheck

// DefaultFilterName is the exposed filter read when no filter name is configured.
const DefaultFilterName = "query"

// Options configures the spellcheck area of a view.
type Options struct {
	// FilterName is the exposed filter holding the searched text.
	FilterName string `mapstructure:"filter_name"`
	// HideOnResult shows the suggestion only when the view has no results.
	HideOnResult bool `mapstructure:"hide_on_result"`
}

// DefaultOptions returns the options of a freshly added area.
func DefaultOptions() Options {
	return Options{
		FilterName:   DefaultFilterName,
		HideOnResult: true,
	}
}

// Normalize fills unset values with their defaults.
func (o Options) Normalize() Options {
	if o.FilterName == "" {
		o.FilterName = DefaultFilterName
	}
	return o
}

// ShouldRender applies the visibility policy to a view whose result set is
// (or is not) empty.
func (o Options) ShouldRender(empty bool) bool {
	return !o.HideOnResult || empty
}
