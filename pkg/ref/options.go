package ref

import (
	"html"
	"reflect"

	"github.com/go-logr/logr"
	"github.com/nobl9/govy/pkg/govy"
	"github.com/pkg/errors"
)

// Option configures an [Inspector].
type Option func(options) options

// Escaper escapes rendered values for the output medium.
type Escaper func(string) string

var (
	// EscapeHTML escapes values for HTML output, it is the default [Escaper].
	EscapeHTML Escaper = html.EscapeString
	// EscapeNone leaves values untouched, suitable for plain text and JSON output.
	EscapeNone Escaper = func(s string) string { return s }
)

type options struct {
	reflector  Reflector
	docs       DocSource
	interfaces []reflect.Type
	escaper    Escaper
	log        logr.Logger
}

// WithReflector replaces the reflect based [Reflector].
// When set, [WithDocSource] and [WithInterfaces] have no effect.
func WithReflector(reflector Reflector) Option {
	return func(o options) options {
		o.reflector = reflector
		return o
	}
}

// WithDocSource enables documentation, parameter names, unexported methods
// and constants, see [godoc.NewIndex].
func WithDocSource(docs DocSource) Option {
	return func(o options) options {
		o.docs = docs
		return o
	}
}

// WithInterfaces sets the interface types which objects are checked against.
// Defaults to [DefaultInterfaces].
func WithInterfaces(interfaces ...reflect.Type) Option {
	return func(o options) options {
		o.interfaces = interfaces
		return o
	}
}

func WithEscaper(escaper Escaper) Option {
	return func(o options) options {
		o.escaper = escaper
		return o
	}
}

// WithLogger sets the logger used to report skipped members and recovered failures.
func WithLogger(log logr.Logger) Option {
	return func(o options) options {
		o.log = log
		return o
	}
}

func defaultOptions() options {
	return options{
		interfaces: DefaultInterfaces,
		escaper:    EscapeHTML,
		log:        logr.Discard(),
	}
}

var optionsValidator = govy.New(
	govy.For(func(o options) Escaper { return o.escaper }).
		WithName("escaper").
		Required(),
	govy.ForSlice(func(o options) []reflect.Type { return o.interfaces }).
		WithName("interfaces").
		RulesForEach(govy.NewRule(func(typ reflect.Type) error {
			if typ == nil || typ.Kind() != reflect.Interface {
				return errors.Errorf("%v is not an interface type", typ)
			}
			return nil
		})),
).
	WithName("Inspector options")

func buildOptions(opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		o = opt(o)
	}
	if err := optionsValidator.Validate(o); err != nil {
		return o, errors.Wrap(err, "invalid inspector options")
	}
	if o.reflector == nil {
		o.reflector = NewRuntimeReflector(o.docs, o.interfaces...)
	}
	return o, nil
}
