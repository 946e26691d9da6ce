package v1

// Repository describes a GitHub repository as far as this tool cares:
// where to clone it from and whether the caller may push to it.
type Repository struct {
	Owner         string
	Name          string
	FullName      string
	DefaultBranch string
	CloneURL      string
	SSHURL        string
	HasPushAccess bool

	// Parent is set when the repository is a fork.
	Parent *Repository
}
