// Package config loads the three configuration sources of a deployment: the per-repository manifest, the global
// parameter store and the accounts registry. Each source is validated once, at load time, and every problem found
// in any of them is reported together.
package config

import (
	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/options"
)

// Config is the validated configuration of one run.
type Config struct {
	Manifest *Manifest
	Globals  *Globals
	Accounts *Accounts
	Repo     *RepoParameters
}

// Load reads the manifest, the global parameter store and the accounts registry from the paths in opts.
func Load(opts *options.DeployOptions) (*Config, error) {
	var (
		cfg  = &Config{}
		errs = &errors.MultiError{}
	)

	manifestPath, err := opts.ResolvePath(opts.ManifestPath)
	errs = errs.Append(err)

	globalsPath, err := opts.ResolvePath(opts.GlobalConfigPath)
	errs = errs.Append(err)

	accountsPath, err := opts.ResolvePath(opts.AccountsPath)
	errs = errs.Append(err)

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	opts.Logger.Debugf("Loading manifest %s", manifestPath)

	if cfg.Manifest, err = LoadManifest(manifestPath); err != nil {
		errs = errs.Append(err)
	}

	opts.Logger.Debugf("Loading global parameters %s", globalsPath)

	if cfg.Globals, err = LoadGlobals(globalsPath); err != nil {
		errs = errs.Append(err)
	}

	opts.Logger.Debugf("Loading accounts registry %s", accountsPath)

	if cfg.Accounts, err = LoadAccounts(accountsPath); err != nil {
		errs = errs.Append(err)
	}

	if cfg.Manifest != nil && cfg.Globals != nil {
		if cfg.Repo, err = cfg.Globals.Repo(cfg.Manifest.RepoName); err != nil {
			errs = errs.Append(err)
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return cfg, nil
}
