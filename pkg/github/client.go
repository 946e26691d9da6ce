package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v82/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	v1 "github.com/forklone/forklone/pkg/api/v1"
)

// Freshly created forks are populated asynchronously and are not
// immediately clonable; these bound how long we wait for one.
var (
	forkWaitInterval = 100 * time.Millisecond
	forkWaitTimeout  = time.Minute
)

type Client struct {
	ctx    context.Context
	client *github.Client
	login  string
}

func New(ctx context.Context) (*Client, error) {
	token, err := resolveToken()
	if err != nil {
		return nil, err
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		ctx:    ctx,
		client: github.NewClient(tc),
	}, nil
}

// CurrentLogin returns the authenticated user's login, cached after the
// first call.
func (c *Client) CurrentLogin() (string, error) {
	if c.login != "" {
		return c.login, nil
	}

	user, _, err := c.client.Users.Get(c.ctx, "")
	if err != nil {
		if status(err) == http.StatusUnauthorized {
			return "", errTokenRejected
		}
		return "", fmt.Errorf("failed to identify authenticated user: %w", err)
	}
	c.login = user.GetLogin()
	return c.login, nil
}

// Repository fetches repository metadata, including the caller's
// permissions on it.
func (c *Client) Repository(owner, name string) (*v1.Repository, error) {
	repo, _, err := c.client.Repositories.Get(c.ctx, owner, name)
	if err != nil {
		switch status(err) {
		case http.StatusNotFound:
			return nil, fmt.Errorf("repository %s/%s not found", owner, name)
		case http.StatusUnauthorized:
			return nil, errTokenRejected
		}
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, name, err)
	}
	return convert(repo), nil
}

// Fork creates a fork of repo, inside org if given. If the owner already
// has a fork, the API returns that fork and we use it. A 202 means the
// fork is still being created in the background; the response carries the
// fork record regardless, so it is treated as success and we wait for the
// fork to become clonable.
func (c *Client) Fork(repo *v1.Repository, org string) (*v1.Repository, error) {
	var opts *github.RepositoryCreateForkOptions
	if org != "" {
		opts = &github.RepositoryCreateForkOptions{Organization: org}
	}

	fork, _, err := c.client.Repositories.CreateFork(c.ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		var accepted *github.AcceptedError
		if !errors.As(err, &accepted) {
			return nil, fmt.Errorf("failed to fork %s: %w", repo.FullName, err)
		}
	}
	if fork == nil {
		return nil, fmt.Errorf("failed to fork %s: empty response", repo.FullName)
	}

	target := convert(fork)
	if target.Parent == nil {
		target.Parent = repo
	}
	if err := c.waitForkReady(target, repo.DefaultBranch); err != nil {
		return nil, err
	}
	return target, nil
}

// waitForkReady polls the fork for the parent's default branch until it
// stops returning 404.
func (c *Client) waitForkReady(fork *v1.Repository, branch string) error {
	deadline := time.Now().Add(forkWaitTimeout)
	for {
		_, _, err := c.client.Repositories.GetBranch(c.ctx, fork.Owner, fork.Name, branch, 0)
		if err == nil {
			return nil
		}
		if status(err) != http.StatusNotFound {
			return fmt.Errorf("failed to check readiness of fork %s: %w", fork.FullName, err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("fork %s did not become ready within %s", fork.FullName, forkWaitTimeout)
		}

		logrus.WithFields(logrus.Fields{
			"fork":   fork.FullName,
			"branch": branch,
		}).Debug("fork not ready yet")
		time.Sleep(forkWaitInterval)
	}
}

var errTokenRejected = errors.New(
	"GitHub rejected the token; supply a valid one via GH_TOKEN, GITHUB_TOKEN, gh, hub, or the hub.oauthtoken git config option")

// status extracts the HTTP status code from a go-github error, or 0.
func status(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

func convert(repo *github.Repository) *v1.Repository {
	r := &v1.Repository{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		DefaultBranch: repo.GetDefaultBranch(),
		CloneURL:      repo.GetCloneURL(),
		SSHURL:        repo.GetSSHURL(),
		HasPushAccess: repo.GetPermissions().GetPush(),
	}
	if parent := repo.GetParent(); parent != nil {
		r.Parent = convert(parent)
	}
	return r
}
