package checkpoint

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

var (
	errBase   = errors.New("the base error")
	errMarker = errors.New("the marker error")
)

type typedError struct {
	code int
}

func (e *typedError) Error() string {
	return fmt.Sprintf("typed error %d", e.code)
}

func TestFrom(t *testing.T) {
	if From(nil) != nil {
		t.Error("From(nil) must return nil")
	}

	err := From(errBase)
	if !errors.Is(err, errBase) {
		t.Errorf("errors.Is() cannot find the wrapped error in %v", err)
	}
	if !strings.Contains(err.Error(), "checkpoint_test.go") {
		t.Errorf("Error() = %q, want the caller file in it", err.Error())
	}
	if !strings.Contains(err.Error(), errBase.Error()) {
		t.Errorf("Error() = %q, want the base message in it", err.Error())
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, errMarker) != nil {
		t.Error("Wrap(nil, ...) must return nil")
	}

	err := Wrap(errBase, errMarker)
	if !errors.Is(err, errBase) {
		t.Errorf("errors.Is() cannot find the previous error in %v", err)
	}
	if !errors.Is(err, errMarker) {
		t.Errorf("errors.Is() cannot find the marker error in %v", err)
	}
}

func TestWrapNested(t *testing.T) {
	inner := Wrap(errBase, errMarker)
	outer := Wrap(inner, errors.New("outer marker"))

	if !errors.Is(outer, errBase) {
		t.Error("nested wrap lost the base error")
	}
	if !errors.Is(outer, errMarker) {
		t.Error("nested wrap lost the inner marker")
	}
}

func TestAs(t *testing.T) {
	typed := &typedError{code: 7}
	err := Wrap(errBase, typed)

	var got *typedError
	if !errors.As(err, &got) {
		t.Fatalf("errors.As() cannot find the typed marker in %v", err)
	}
	if got.code != 7 {
		t.Errorf("recovered code = %d, want 7", got.code)
	}
}
