// Package ghrepo parses user-supplied GitHub repository references.
package ghrepo

import (
	"fmt"
	"net/url"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Repo identifies a GitHub repository. Owner is empty when the reference
// was a bare name; the caller fills it in with the authenticated user's
// login.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

var recognizedSchemes = sets.New[string]("https", "http", "ssh", "git")

// Parse turns a repository reference into a Repo. Accepted forms:
//
//	NAME
//	OWNER/NAME
//	https://github.com/OWNER/NAME[.git][/...]
//	ssh://git@github.com/OWNER/NAME.git
//	git@github.com:OWNER/NAME.git
func Parse(reference string) (Repo, error) {
	if reference == "" {
		return Repo{}, fmt.Errorf("empty repository reference")
	}

	if strings.HasPrefix(reference, "git@") || strings.Contains(reference, "://") {
		return parseURL(reference)
	}

	parts := strings.Split(reference, "/")
	switch len(parts) {
	case 1:
		return Repo{Name: trimName(parts[0])}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Repo{}, fmt.Errorf("invalid repository reference %q: owner and name must be non-empty", reference)
		}
		return Repo{Owner: parts[0], Name: trimName(parts[1])}, nil
	default:
		return Repo{}, fmt.Errorf("invalid repository reference %q: expected NAME, OWNER/NAME, or a repository URL", reference)
	}
}

func parseURL(reference string) (Repo, error) {
	raw := reference
	if !strings.Contains(raw, "://") {
		// scp-like ssh syntax: git@github.com:owner/repo.git
		raw = "ssh://" + strings.Replace(raw, ":", "/", 1)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Repo{}, fmt.Errorf("invalid repository URL %q: %w", reference, err)
	}
	if !recognizedSchemes.Has(u.Scheme) {
		return Repo{}, fmt.Errorf("invalid repository URL %q: unsupported scheme %q", reference, u.Scheme)
	}

	// Anything past OWNER/NAME (blob/..., pull/..., query, fragment) is a
	// deep link into the repository and gets stripped.
	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("invalid repository URL %q: path must contain OWNER/NAME", reference)
	}

	return Repo{Owner: parts[0], Name: trimName(parts[1])}, nil
}

func trimName(name string) string {
	return strings.TrimSuffix(name, ".git")
}
