package ship

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/forge"
)

// Environment variable names.
const (
	EnvGeminiKey      = "GEMINI_API_KEY"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubRepo     = "GITHUB_REPO"
	EnvResetLocalMain = "RESET_LOCAL_MAIN"
)

// DotEnvFile is read from the project directory when present.
const DotEnvFile = ".env"

// Env holds the credentials and settings ship reads from the environment.
type Env struct {
	GeminiKey      string
	GitHubToken    string
	Repo           string
	ResetLocalMain bool
}

// LoadEnv reads dir/.env, if any, and overlays the process environment.
// Process variables win over the file, as with godotenv.Load.
func LoadEnv(dir string, lookup func(string) (string, bool)) (Env, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	file, err := godotenv.Read(filepath.Join(dir, DotEnvFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Env{}, errors.Wrapf(err, "reading %s", DotEnvFile)
	}

	get := func(key string) string {
		if v, ok := lookup(key); ok {
			return v
		}
		return file[key]
	}

	env := Env{
		GeminiKey:      get(EnvGeminiKey),
		GitHubToken:    get(EnvGitHubToken),
		Repo:           get(EnvGitHubRepo),
		ResetLocalMain: get(EnvResetLocalMain) == "1",
	}
	if env.Repo == "" {
		env.Repo = forge.DefaultRepo
	}
	return env, nil
}

// Validate checks that every credential opts needs is present. A dry run
// makes no GitHub calls, so it needs no token.
func (e Env) Validate(opts Options) error {
	if e.GeminiKey == "" {
		return errors.Wrapf(errors.ErrMissingCredential, "%s must be set", EnvGeminiKey)
	}
	if opts.opensPR() && !opts.DryRun && e.GitHubToken == "" {
		return errors.Wrapf(errors.ErrMissingCredential, "%s must be set", EnvGitHubToken)
	}
	return nil
}
