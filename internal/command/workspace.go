package command

import (
	"fmt"
	"os"

	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/fs"
	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/repo"
)

// OpenRepository opens the repository enclosing the working directory.
func OpenRepository() (*repo.Repository, error) {
	r, err := repo.OpenAt(config.ResolveRepoDir(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return r, nil
}

// KeyFilePath picks the key file: the flag value, then the repository
// setting, then VBITS_KEYFILE, then the default.
func KeyFilePath(flagValue string, r *repo.Repository) string {
	path := flagValue
	switch {
	case path != "":
	case r != nil:
		path = r.Config.KeyFile
	case os.Getenv(config.EnvKeyFile) != "":
		path = os.Getenv(config.EnvKeyFile)
	default:
		path = config.DefaultKeyFile
	}
	return config.ExpandHome(path)
}

// LoadSigner loads the key at path. A missing key is generated and
// announced on stderr.
func LoadSigner(ctx *Context, path string) (*identity.Keypair, error) {
	k, created, err := identity.LoadOrGenerate(fs.NewOSFS(), path, ctx.Logger)
	if err != nil {
		return nil, err
	}
	if created {
		fmt.Fprintf(ctx.Stderr, "Generated new key %s for address %s\n", path, k.Address())
	}
	return k, nil
}
