package yaml

import (
	"strings"
	"testing"

	"github.com/0xalexb/unicfg/adapter"
	"github.com/0xalexb/unicfg/storage/file"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
config:
  master: "true"
  interval: 30
api:
  permissions:
    - read
    - write
  host: localhost
servers:
  - name: alpha
  - name: beta
`

func parseSample(t *testing.T) *Document {
	t.Helper()

	doc, err := Parse("/etc/app/config.yaml", []byte(sample), file.NewStore(afero.NewMemMapFs()))
	require.NoError(t, err)

	return doc
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "scalar", data: "just some words\nwithout any delimiter\n"},
		{name: "sequence", data: "- a\n- b\n"},
		{name: "unclosed flow mapping", data: "config: {master: true\n"},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse("config.cfg", []byte(testCase.data), nil)

			require.ErrorIs(t, err, adapter.ErrParse)
			assert.Nil(t, doc)
		})
	}
}

func TestDocument_Get(t *testing.T) {
	t.Parallel()

	doc := parseSample(t)

	testCases := []struct {
		name   string
		query  string
		want   string
		wantOK bool
	}{
		{name: "colon path", query: "config:master", want: "true", wantOK: true},
		{name: "yaml path", query: "$.config.interval", want: "30", wantOK: true},
		{name: "single key", query: "api:host", want: "localhost", wantOK: true},
		{name: "index", query: "$.api.permissions[1]", want: "write", wantOK: true},
		{name: "missing", query: "config:timeout", wantOK: false},
		{name: "empty", query: "", wantOK: false},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, ok := doc.Get(testCase.query)

			assert.Equal(t, testCase.wantOK, ok)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestDocument_GetValue(t *testing.T) {
	t.Parallel()

	doc := parseSample(t)

	testCases := []struct {
		name   string
		keys   []string
		want   string
		wantOK bool
	}{
		{name: "nested", keys: []string{"config", "master"}, want: "true", wantOK: true},
		{name: "number", keys: []string{"config", "interval"}, want: "30", wantOK: true},
		{name: "sequence index", keys: []string{"api", "permissions", "0"}, want: "read", wantOK: true},
		{name: "mapping in sequence", keys: []string{"servers", "1", "name"}, want: "beta", wantOK: true},
		{name: "index out of range", keys: []string{"servers", "5", "name"}, wantOK: false},
		{name: "below scalar", keys: []string{"config", "master", "x"}, wantOK: false},
		{name: "missing", keys: []string{"network"}, wantOK: false},
		{name: "no keys", keys: nil, wantOK: false},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, ok := doc.GetValue(testCase.keys...)

			assert.Equal(t, testCase.wantOK, ok)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestDocument_SetValue(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		keys []string
	}{
		{name: "existing", keys: []string{"config", "master"}},
		{name: "new key", keys: []string{"config", "timeout"}},
		{name: "new nested mapping", keys: []string{"network", "proxy", "host"}},
		{name: "sequence element", keys: []string{"servers", "0", "name"}},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc := parseSample(t)

			require.True(t, doc.SetValue("value", testCase.keys...))

			got, ok := doc.GetValue(testCase.keys...)
			require.True(t, ok)
			assert.Equal(t, "value", got)
		})
	}
}

func TestDocument_SetValue_Invalid(t *testing.T) {
	t.Parallel()

	doc := parseSample(t)
	before, err := doc.Encode()
	require.NoError(t, err)

	assert.False(t, doc.SetValue("x", "config", "master", "nested"))
	assert.False(t, doc.SetValue("x", "servers", "9", "name"))
	assert.False(t, doc.SetValue("x", "servers", "first"))
	assert.False(t, doc.SetValue("x"))
	assert.False(t, doc.Set("$.api.permissions[0]", "x"))
	assert.False(t, doc.Set("$..host", "x"))
	assert.False(t, doc.Set("", "x"))

	after, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestDocument_Set(t *testing.T) {
	t.Parallel()

	doc := parseSample(t)

	require.True(t, doc.Set("$.api.host", "remote"))
	require.True(t, doc.Set("network:mode", "bridge"))

	got, ok := doc.Get("api:host")
	require.True(t, ok)
	assert.Equal(t, "remote", got)

	got, ok = doc.Get("$.network.mode")
	require.True(t, ok)
	assert.Equal(t, "bridge", got)
}

func TestDocument_Set_DottedColonForm(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		query string
		keys  []string
	}{
		{name: "dots only", query: "cache.ttl", keys: []string{"cache", "ttl"}},
		{name: "colon and dots", query: "config:limits.max", keys: []string{"config", "limits", "max"}},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc := parseSample(t)

			require.True(t, doc.Set(testCase.query, "60"))

			got, ok := doc.Get(testCase.query)
			require.True(t, ok)
			assert.Equal(t, "60", got)

			got, ok = doc.GetValue(testCase.keys...)
			require.True(t, ok)
			assert.Equal(t, "60", got)

			_, ok = doc.GetValue(testCase.query)
			assert.False(t, ok, "no literal dotted key must be stored")
		})
	}
}

func TestDocument_SaveRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := file.NewStore(fs)
	require.NoError(t, afero.WriteFile(fs, "/etc/app/config.yaml", []byte(sample), 0o600))

	doc, err := Load("/etc/app/config.yaml", store)
	require.NoError(t, err)
	require.NoError(t, doc.Save(""))

	reloaded, err := Load("/etc/app/config.yaml", store)
	require.NoError(t, err)

	for _, keys := range [][]string{
		{"config", "master"},
		{"config", "interval"},
		{"api", "permissions", "1"},
		{"api", "host"},
		{"servers", "0", "name"},
	} {
		want, ok := doc.GetValue(keys...)
		require.True(t, ok, keys)

		got, ok := reloaded.GetValue(keys...)
		require.True(t, ok, keys)
		assert.Equal(t, want, got, keys)
	}
}

func TestDocument_Encode_KeepsOrder(t *testing.T) {
	t.Parallel()

	doc := parseSample(t)

	data, err := doc.Encode()
	require.NoError(t, err)

	text := string(data)
	configIdx := strings.Index(text, "config:")
	apiIdx := strings.Index(text, "api:")
	serversIdx := strings.Index(text, "servers:")

	require.GreaterOrEqual(t, configIdx, 0)
	assert.Less(t, configIdx, apiIdx)
	assert.Less(t, apiIdx, serversIdx)
}

func TestConvertToYAMLPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$.key", convertToYAMLPath("key"))
	assert.Equal(t, "$.api.permissions", convertToYAMLPath("api:permissions"))
	assert.Equal(t, "$.api.permissions[0]", convertToYAMLPath("$.api.permissions[0]"))
}

func TestDocument_Metadata(t *testing.T) {
	t.Parallel()

	doc := parseSample(t)

	assert.Equal(t, adapter.FormatYAML, doc.Format())
	assert.Equal(t, "/etc/app/config.yaml", doc.Source())
}
