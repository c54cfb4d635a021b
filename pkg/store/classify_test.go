package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	s := &Store{publicPrefix: DefaultPublicPrefix}

	tests := []struct {
		name string
		path string
		want route
	}{
		{name: "empty is root", path: "", want: route{tier: tierBoth}},
		{name: "slash is root", path: "/", want: route{tier: tierBoth}},
		{
			name: "private dir",
			path: "some/private/dir/",
			want: route{tier: tierPrivate, prefix: "some/private/dir/"},
		},
		{
			name: "private file",
			path: "afile.html",
			want: route{tier: tierPrivate, prefix: "afile.html", looksLikeFile: true},
		},
		{
			name: "leading slash stripped",
			path: "/afile.html",
			want: route{tier: tierPrivate, prefix: "afile.html", looksLikeFile: true},
		},
		{
			name: "public file",
			path: "public/afile.html",
			want: route{tier: tierPublic, prefix: "afile.html", looksLikeFile: true},
		},
		{
			name: "public nested dir",
			path: "public/sub/",
			want: route{tier: tierPublic, prefix: "sub/"},
		},
		{
			name: "public prefix alone",
			path: "public/",
			want: route{tier: tierPublic, prefix: ""},
		},
		{
			name: "prefix match is segment-exact",
			path: "publicx/afile.html",
			want: route{tier: tierPrivate, prefix: "publicx/afile.html", looksLikeFile: true},
		},
		{
			name: "bare public segment routes private",
			path: "public",
			want: route{tier: tierPrivate, prefix: "public"},
		},
		{
			name: "dotted intermediate segment is not a file",
			path: "dir.v2/sub/",
			want: route{tier: tierPrivate, prefix: "dir.v2/sub/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.classify(tt.path))
		})
	}
}

func TestClassify_CustomPublicPrefix(t *testing.T) {
	s := &Store{publicPrefix: "shared/"}

	assert.Equal(t, route{tier: tierPublic, prefix: "a.txt", looksLikeFile: true}, s.classify("shared/a.txt"))
	assert.Equal(t, route{tier: tierPrivate, prefix: "public/a.txt", looksLikeFile: true}, s.classify("public/a.txt"))
}
