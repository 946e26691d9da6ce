package ghrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		want      Repo
	}{
		{
			name:      "bare name",
			reference: "widget",
			want:      Repo{Name: "widget"},
		},
		{
			name:      "owner and name",
			reference: "alice/widget",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
		{
			name:      "owner and name with git suffix",
			reference: "alice/widget.git",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
		{
			name:      "https URL",
			reference: "https://github.com/alice/widget",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
		{
			name:      "https URL with git suffix",
			reference: "https://github.com/alice/widget.git",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
		{
			name:      "https URL with trailing slash",
			reference: "https://github.com/alice/widget/",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
		{
			name:      "deep link into a file",
			reference: "https://github.com/alice/widget/blob/main/pkg/doc.go#L10",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
		{
			name:      "pull request link",
			reference: "https://github.com/alice/widget/pull/42",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
		{
			name:      "http URL",
			reference: "http://github.com/alice/widget",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
		{
			name:      "ssh URL",
			reference: "ssh://git@github.com/alice/widget.git",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
		{
			name:      "scp-like ssh syntax",
			reference: "git@github.com:alice/widget.git",
			want:      Repo{Owner: "alice", Name: "widget"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.reference)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		reference string
	}{
		{name: "empty", reference: ""},
		{name: "too many segments", reference: "a/b/c"},
		{name: "empty owner", reference: "/widget"},
		{name: "empty name", reference: "alice/"},
		{name: "unsupported scheme", reference: "ftp://github.com/alice/widget"},
		{name: "URL without name", reference: "https://github.com/alice"},
		{name: "URL without path", reference: "https://github.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.reference)
			assert.Error(t, err)
		})
	}
}

func TestFullName(t *testing.T) {
	r := Repo{Owner: "alice", Name: "widget"}
	assert.Equal(t, "alice/widget", r.FullName())
}
