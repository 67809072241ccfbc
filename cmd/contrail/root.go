// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/client"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/config"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/logging"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/reconcile"

	// Import resources to trigger init() registration
	_ "github.com/platform-engineering-labs/formae-plugin-contrail/pkg/resources/network"
)

// errResultFailed is returned after a failed Result has been printed
var errResultFailed = errors.New("reconciliation failed")

type options struct {
	name           string
	resourceType   string
	state          string
	domain         string
	project        string
	definition     string
	definitionFile string
	apiURL         string
	authURL        string
	envFile        string
	logLevel       string
	logJSON        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "contrail",
		Short: "Reconcile a Contrail resource to a desired state",
		Long: `contrail drives one Contrail API resource, identified by type and
fq_name (domain:project:name), to the state present, absent or query,
and prints the result as JSON.`,
		Example: `  contrail --type virtual-network --project vCenter --name VPCB1 --state query
  contrail --type virtual-network --project vCenter --name VPCB1 --state present --definition-file vn.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.name, "name", "", "resource name")
	flags.StringVar(&opts.resourceType, "type", "", "resource type, e.g. virtual-network")
	flags.StringVar(&opts.state, "state", "", "desired state: present, absent or query")
	flags.StringVar(&opts.domain, "domain", "", "domain name (default from CONTRAIL_DOMAIN or default-domain)")
	flags.StringVar(&opts.project, "project", "", "project name (default from CONTRAIL_PROJECT)")
	flags.StringVar(&opts.definition, "definition", "", "resource definition as inline JSON or YAML")
	flags.StringVar(&opts.definitionFile, "definition-file", "", "path to a JSON or YAML resource definition")
	flags.StringVar(&opts.apiURL, "api-url", "", "Contrail API URL (default from CONTRAIL_API_URL)")
	flags.StringVar(&opts.authURL, "auth-url", "", "Keystone URL (default from OS_AUTH_URL)")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file loaded before reading the environment")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("state")
	cmd.MarkFlagsMutuallyExclusive("definition", "definition-file")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	logging.SetupWriter(cmd.ErrOrStderr(), opts.logLevel, opts.logJSON)

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", opts.envFile, err)
		}
	}

	cfg := config.FromEnv()
	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
	}
	if opts.authURL != "" {
		cfg.AuthURL = opts.authURL
	}
	if opts.domain != "" {
		cfg.Domain = opts.domain
	}
	if opts.project != "" {
		cfg.Project = opts.project
	}
	if cfg.Project == "" {
		return fmt.Errorf("project is required (use --project or set CONTRAIL_PROJECT)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	definition, err := loadDefinition(opts.definition, opts.definitionFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	contrailClient, err := client.NewClient(ctx, cfg)
	if err != nil {
		return err
	}

	req := reconcile.Request{
		Type:       opts.resourceType,
		Name:       opts.name,
		Project:    cfg.Project,
		Domain:     cfg.Domain,
		State:      reconcile.ParseState(opts.state),
		Definition: definition,
	}
	log.Debug().Str("endpoint", contrailClient.Endpoint()).Str("fq_name", req.FQName().String()).Msg("Reconciling")

	result, err := reconcile.New(contrailClient).Reconcile(ctx, req)
	if err != nil {
		return err
	}

	if err := printJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.Failed {
		return errResultFailed
	}
	return nil
}

// loadDefinition parses an inline or file definition. YAML is a superset of JSON, so both are accepted.
func loadDefinition(inline, path string) (map[string]interface{}, error) {
	data := []byte(inline)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read definition file: %w", err)
		}
		data = raw
	}

	definition := map[string]interface{}{}
	if len(data) == 0 {
		return definition, nil
	}
	if err := yaml.Unmarshal(data, &definition); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	return definition, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
