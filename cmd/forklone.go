package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	v1 "github.com/forklone/forklone/pkg/api/v1"
	"github.com/forklone/forklone/pkg/ghrepo"
	"github.com/forklone/forklone/pkg/git"
	"github.com/forklone/forklone/pkg/github"
)

var opts struct {
	cloneOpts      string
	org            string
	upstreamRemote string
}

// apiClient is the slice of the GitHub client the workflow needs.
type apiClient interface {
	CurrentLogin() (string, error)
	Repository(owner, name string) (*v1.Repository, error)
	Fork(repo *v1.Repository, org string) (*v1.Repository, error)
}

// Collaborators are reached through variables so tests can stub them out.
var (
	newClient = func(ctx context.Context) (apiClient, error) {
		return github.New(ctx)
	}
	gitClone        = git.Clone
	gitAddRemote    = git.AddRemote
	gitRemoveRemote = git.RemoveRemote
)

func NewCommand() *cobra.Command {
	cmd.Flags().StringVar(&opts.cloneOpts, "clone-opts", "",
		`Pass the given options to the git clone command, e.g. --clone-opts="--depth 1 --quiet"`)
	cmd.Flags().StringVar(&opts.org, "org", "",
		"Fork the repository within the given organization")
	cmd.Flags().StringVarP(&opts.upstreamRemote, "upstream-remote", "U", "upstream",
		"Use the given name for the remote for the parent repository")
	cmd.AddCommand(NewVersionCommand())
	return cmd
}

var cmd = &cobra.Command{
	Use:   "forklone REPOSITORY [DIRECTORY]",
	Short: "Fork and/or clone a GitHub repository",
	Long: `Fork and/or clone a GitHub repository.

If you have push permissions to the given repository, it is cloned
normally. Otherwise the repository is forked (or a pre-existing fork is
reused), the fork is cloned, and the clone's upstream remote is pointed
at the parent repository.

A repository can be given as NAME (owned by you), OWNER/NAME, or a
repository URL such as https://github.com/OWNER/NAME.`,
	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		directory := ""
		if len(args) == 2 {
			directory = args[1]
		}
		return run(cmd.Context(), args[0], directory)
	},
}

func run(ctx context.Context, reference, directory string) error {
	ref, err := ghrepo.Parse(reference)
	if err != nil {
		return err
	}

	if directory == "" {
		directory = ref.Name
	}
	// Reject an existing destination before touching the network.
	if _, err := os.Stat(directory); err == nil {
		return fmt.Errorf("destination %q already exists", directory)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check destination %q: %w", directory, err)
	}

	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	if ref.Owner == "" {
		login, err := client.CurrentLogin()
		if err != nil {
			return err
		}
		ref.Owner = login
	}

	repo, err := client.Repository(ref.Owner, ref.Name)
	if err != nil {
		return err
	}

	var target, upstream *v1.Repository
	if repo.HasPushAccess {
		logrus.Infof("user has push access to %s; not forking", repo.FullName)
		target = repo
		upstream = repo.Parent // nil unless the repository is itself a fork
	} else {
		logrus.Infof("forking %s ...", repo.FullName)
		target, err = client.Fork(repo, opts.org)
		if err != nil {
			return err
		}
		upstream = repo
	}

	logrus.WithFields(logrus.Fields{
		"repo":      target.FullName,
		"directory": directory,
	}).Info("cloning")
	if err := gitClone(ctx, target.SSHURL, directory, opts.cloneOpts); err != nil {
		return err
	}

	if upstream != nil {
		logrus.Infof("pointing %q remote at %s", opts.upstreamRemote, upstream.FullName)
		if opts.upstreamRemote == "origin" {
			if err := gitRemoveRemote(ctx, directory, "origin"); err != nil {
				return err
			}
		}
		if err := gitAddRemote(ctx, directory, opts.upstreamRemote, upstream.CloneURL); err != nil {
			return err
		}
	}

	return nil
}
