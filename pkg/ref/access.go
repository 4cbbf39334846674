package ref

import (
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
)

// accessGrant is a temporary view of a field which the reflect package
// refuses to hand out, typically an unexported struct field.
// The view must not outlive the grant, callers release it with a deferred [accessGrant.Release].
type accessGrant struct {
	view     reflect.Value
	released bool
}

// elevate acquires read access to an addressable field.
func elevate(field reflect.Value) (*accessGrant, error) {
	if !field.IsValid() {
		return nil, errors.New("cannot elevate access to an invalid value")
	}
	if !field.CanAddr() {
		return nil, errors.Errorf("cannot elevate access to non-addressable %s", field.Type())
	}
	view := reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	return &accessGrant{view: view}, nil
}

// Read copies the current value out of the view.
func (g *accessGrant) Read() (v any, err error) {
	if g.released {
		return nil, errors.New("access grant has already been released")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("failed to read %s: %v", g.view.Type(), r)
		}
	}()
	return g.view.Interface(), nil
}

// Release drops the elevated view. It is safe to call more than once.
func (g *accessGrant) Release() {
	g.view = reflect.Value{}
	g.released = true
}

// readField reads a field, elevating access only for this single read.
func readField(field reflect.Value) (any, error) {
	if field.IsValid() && field.CanInterface() {
		return field.Interface(), nil
	}
	grant, err := elevate(field)
	if err != nil {
		return nil, err
	}
	defer grant.Release()
	return grant.Read()
}
