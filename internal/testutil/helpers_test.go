// internal/testutil/helpers_test.go
package testutil

import "testing"

func TestAssertNilHandlesTypedNilValues(t *testing.T) {
	var p *int
	AssertNil(t, p, "typed nil pointer")

	var m map[string]int
	AssertNil(t, m, "nil map")

	var s []string
	AssertNil(t, s, "nil slice")

	var e error
	AssertNil(t, e, "nil interface")
}

func TestAssertNotNilOnConcreteValues(t *testing.T) {
	AssertNotNil(t, new(int), "non-nil pointer")
	AssertNotNil(t, 0, "non-nilable value")
	AssertNotNil(t, "", "non-nilable string")
}
