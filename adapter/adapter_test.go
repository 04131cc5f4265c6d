package adapter_test

import (
	"errors"
	"testing"

	"github.com/0xalexb/unicfg/adapter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError_WrapsBoth(t *testing.T) {
	t.Parallel()

	cause := errors.New("unexpected EOF")

	err := adapter.ParseError(adapter.FormatXML, "/etc/app/config.xml", cause)

	require.ErrorIs(t, err, adapter.ErrParse)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "xml")
	assert.Contains(t, err.Error(), "/etc/app/config.xml")
}

func TestValidKeys(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		keys []string
		want bool
	}{
		{name: "nil", keys: nil, want: false},
		{name: "empty", keys: []string{}, want: false},
		{name: "single", keys: []string{"master"}, want: true},
		{name: "nested", keys: []string{"config", "master"}, want: true},
		{name: "empty segment", keys: []string{"config", ""}, want: false},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, adapter.ValidKeys(testCase.keys))
		})
	}
}

func TestTarget(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/src.ini", adapter.Target("", "/src.ini"))
	assert.Equal(t, "/other.ini", adapter.Target("/other.ini", "/src.ini"))
}
