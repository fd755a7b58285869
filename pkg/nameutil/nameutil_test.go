package nameutil_test

import (
	"testing"

	"github.com/forgelabs/crossforge/pkg/nameutil"
	"github.com/stretchr/testify/assert"
)

func TestUppercase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "dots and dashes", input: "my-pkg.sub", expected: "MY_PKG_SUB"},
		{name: "plain lowercase", input: "busybox", expected: "BUSYBOX"},
		{name: "digits pass through", input: "libpng16", expected: "LIBPNG16"},
		{name: "already uppercase", input: "ABC", expected: "ABC"},
		{name: "underscore kept", input: "foo_bar", expected: "FOO_BAR"},
		{name: "empty", input: "", expected: ""},
		{name: "host prefix", input: "host-pkgconf", expected: "HOST_PKGCONF"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, nameutil.Uppercase(tc.input))
		})
	}
}

func TestSanitizeVersion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "vcs ref", input: "remotes/origin/1_10_stable", expected: "remotes_origin_1_10_stable"},
		{name: "plain version", input: "1.2.3", expected: "1.2.3"},
		{name: "single slash", input: "branches/stable", expected: "branches_stable"},
		{name: "no change", input: "custom", expected: "custom"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, nameutil.SanitizeVersion(tc.input))
		})
	}
}
