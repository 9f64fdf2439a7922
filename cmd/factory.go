package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/steph544/compliance-app-sub001/internal/catalog"
	"github.com/steph544/compliance-app-sub001/internal/cliconfig"
	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/engine"
	"github.com/steph544/compliance-app-sub001/internal/service"
	"github.com/steph544/compliance-app-sub001/internal/store"
	"github.com/steph544/compliance-app-sub001/pkg/client"
)

var f = NewFactory()

type Factory struct {
	// RemoteAddr is the address of the Aegis server to connect to.
	RemoteAddr string

	// Command-specific flags
	CatalogPath string // the local rule/control catalog for offline evaluation
	Vendor      string
}

func NewFactory() *Factory {
	return &Factory{}
}

// GetClient returns an authenticated HTTP client for remote operations.
func (f *Factory) GetClient() (*client.Client, error) {
	server := f.RemoteAddr // prio 1: command-line flag
	if server == "" {
		server = viper.GetString(AegisAddrKey) // prio 2: config/env
	}
	if server == "" {
		return nil, fmt.Errorf("server address not configured (use --server or set AEGIS_ADDR)")
	}

	var token string
	if cfg, err := cliconfig.Load(); err == nil {
		if cred, err := cfg.GetCredential(server); err == nil { // token prio 1: saved credential
			token = cred.Token
		}
	}

	if envToken := os.Getenv("AEGIS_TOKEN"); envToken != "" { // token prio 2: env var
		token = envToken
	}

	return client.New(server, client.WithAuthToken(token)), nil
}

// LoadBundle loads and validates the local catalog.
func (f *Factory) LoadBundle() (*catalog.Bundle, map[string]core.Control, error) {
	if f.CatalogPath == "" {
		return nil, nil, fmt.Errorf("catalog not specified (use --catalog)")
	}
	bundle, err := catalog.Load(f.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	controls, err := bundle.Validate()
	if err != nil {
		return nil, nil, fmt.Errorf("validating catalog: %w", err)
	}
	return bundle, controls, nil
}

// GetLocalService builds an assessment service from the local catalog,
// without auditing or a remote server.
func (f *Factory) GetLocalService() (*service.AssessmentService, error) {
	bundle, controls, err := f.LoadBundle()
	if err != nil {
		return nil, err
	}
	return service.NewAssessmentService(
		engine.NewManager(bundle.Rules, controls),
		nil, // for local CLI operations, we don't do auditing
		store.NewInMemoryResultStore(),
		f.Vendor,
	), nil
}

func (f *Factory) bindCatalogFlag(flags *pflag.FlagSet) {
	flags.StringVarP(&f.CatalogPath, "catalog", "f", "", "The rule/control catalog file or directory to use")
}
