package xpath

// Reserved namespace URIs (spec.md §3/§4.H).
const (
	NamespaceURIXML   = "http://www.w3.org/XML/1998/namespace"
	NamespaceURIXMLNS = "http://www.w3.org/2000/xmlns/"
	namespaceURIXHTML = "http://www.w3.org/1999/xhtml"
)

// Options holds the fixed enumerated set of evaluation options from
// spec.md §3.
type Options struct {
	// CaseSensitive controls name comparisons in node tests and
	// namespace-prefix case-folding. Default false: names are
	// lower-cased before comparison.
	CaseSensitive bool
	// UniqueIDs maps a namespace URI to the local name of the attribute
	// that id() treats as that namespace's unique identifier attribute.
	UniqueIDs map[string]string
}

// Option configures an Options value, following the functional-options
// shape of the teacher's xsdgen.Config constructor.
type Option func(*Options)

// WithCaseSensitive sets the case-sensitive option.
func WithCaseSensitive(v bool) Option {
	return func(o *Options) { o.CaseSensitive = v }
}

// WithUniqueID registers ns as mapping to the unique-id attribute local.
func WithUniqueID(ns, local string) Option {
	return func(o *Options) {
		if o.UniqueIDs == nil {
			o.UniqueIDs = map[string]string{}
		}
		o.UniqueIDs[ns] = local
	}
}

// NewOptions builds an Options value from the zero-value defaults
// (case-insensitive; XML and XHTML namespaces seeded onto "id") plus any
// overrides.
func NewOptions(opts ...Option) Options {
	o := Options{
		UniqueIDs: map[string]string{
			NamespaceURIXML:   "id",
			namespaceURIXHTML: "id",
		},
	}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
