package github

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/cli/safeexec"
	"github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

const defaultHost = "github.com"

// resolveToken finds a GitHub access token, in order: the GH_TOKEN and
// GITHUB_TOKEN environment variables (an .env file in the working
// directory is folded into the environment first), the gh CLI's stored
// credentials, hub's config file, and the hub.oauthtoken git config
// option.
func resolveToken() (string, error) {
	// .env values never override variables already set in the environment.
	_ = gotenv.Load()

	if token, source := auth.TokenForHost(defaultHost); token != "" {
		logrus.WithField("source", source).Debug("found GitHub token")
		return token, nil
	}
	if token := hubConfigToken(hubConfigPath()); token != "" {
		logrus.WithField("source", "hub config").Debug("found GitHub token")
		return token, nil
	}
	if token := gitConfigToken(); token != "" {
		logrus.WithField("source", "hub.oauthtoken").Debug("found GitHub token")
		return token, nil
	}

	return "", fmt.Errorf("GitHub token not found; set GH_TOKEN or GITHUB_TOKEN (possibly in an .env file), log in with gh or hub, or set the hub.oauthtoken git config option")
}

// hubConfigEntry mirrors one host entry in hub's YAML config file.
type hubConfigEntry struct {
	User       string `yaml:"user"`
	OAuthToken string `yaml:"oauth_token"`
}

func hubConfigPath() string {
	if p := os.Getenv("HUB_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hub")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hub")
}

func hubConfigToken(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var cfg map[string][]hubConfigEntry
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ""
	}
	for _, entry := range cfg[defaultHost] {
		if entry.OAuthToken != "" {
			return entry.OAuthToken
		}
	}
	return ""
}

func gitConfigToken() string {
	gitBin, err := safeexec.LookPath("git")
	if err != nil {
		return ""
	}
	out, err := exec.Command(gitBin, "config", "--get", "hub.oauthtoken").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
