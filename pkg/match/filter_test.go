package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New([]string{"[unclosed"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")

	_, err = New(nil, []string{"[unclosed"})
	require.Error(t, err)
}

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name     string
		includes []string
		excludes []string
		path     string
		want     bool
	}{
		{name: "no patterns passes everything", path: "any/thing.txt", want: true},
		{name: "include match", includes: []string{"**/*.html"}, path: "dir/inadir/file.html", want: true},
		{name: "include miss", includes: []string{"**/*.html"}, path: "dir/inadir/file.txt", want: false},
		{name: "doublestar crosses separators", includes: []string{"public/**"}, path: "public/sub/afile.html", want: true},
		{name: "single star stops at separator", includes: []string{"public/*"}, path: "public/sub/afile.html", want: false},
		{name: "exclude wins over include", includes: []string{"**"}, excludes: []string{"**/*.tmp"}, path: "a/b.tmp", want: false},
		{name: "exclude only", excludes: []string{"secret/**"}, path: "secret/key.pem", want: false},
		{name: "exclude miss passes", excludes: []string{"secret/**"}, path: "afile.html", want: true},
		{name: "any include suffices", includes: []string{"*.txt", "*.html"}, path: "afile.html", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.includes, tt.excludes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(tt.path))
		})
	}
}

func TestFilter_Empty(t *testing.T) {
	f, err := New(nil, nil)
	require.NoError(t, err)
	assert.True(t, f.Empty())

	f, err = New([]string{"*.html"}, nil)
	require.NoError(t, err)
	assert.False(t, f.Empty())
}
