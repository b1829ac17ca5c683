package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/meghashyamc/searchform/api"
	"github.com/meghashyamc/searchform/config"
	"github.com/meghashyamc/searchform/logger"
	"github.com/meghashyamc/searchform/render"
	"github.com/meghashyamc/searchform/secrets"
	"github.com/meghashyamc/searchform/services/search"
	"github.com/meghashyamc/searchform/validation"
	"github.com/meghashyamc/searchform/variants"
	"github.com/spf13/cobra"
)

var errNoVault = errors.New("no secrets vault configured, set SECRETS_DB_PATH or secrets.db_path")

// app carries what the root command loads for its subcommands.
type app struct {
	env string
	cfg *config.Config
}

func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "searchform",
		Short:         "Search forms for remote record search APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initializeConfig()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.env, "env", "e", "", "config environment, selects config/config.<env>.yaml")

	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newSearchCommand(a))
	rootCmd.AddCommand(newVariantsCommand())
	rootCmd.AddCommand(newSecretsCommand(a))

	return rootCmd
}

func (a *app) initializeConfig() error {
	godotenv.Load()

	cfg, err := config.Load(a.env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	return nil
}

func newServeCommand(a *app) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search forms and the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.BindFlag("server.port", cmd.Flags().Lookup("port")); err != nil {
				return err
			}
			if err := a.cfg.BindFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
				return err
			}
			return api.Run(cmd.Context(), a.cfg)
		},
	}

	serveCmd.Flags().StringP("port", "p", "", "port to listen on")
	serveCmd.Flags().String("log-level", "", "debug, info, warn or error")

	return serveCmd
}

type searchOptions struct {
	variant    string
	query      string
	searchType string
	endpoint   string
	output     string
}

func newSearchCommand(a *app) *cobra.Command {
	opts := searchOptions{}

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Submit one search and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := variants.Get(opts.variant)
			if err != nil {
				return err
			}

			log := logger.New(a.cfg.GetLogLevel())
			store, vault, err := secrets.Open(log, a.cfg)
			if err != nil {
				return err
			}
			if vault != nil {
				defer vault.Close()
			}

			validator, err := validation.New(log)
			if err != nil {
				return err
			}
			service := search.New(log, validator, search.NewHTTPClient(a.cfg.GetHTTPTimeout()))

			submission := opts.submission(a.cfg, variant, store)
			view, err := service.Submit(cmd.Context(), variant, submission)
			if err != nil {
				render.Error(cmd.ErrOrStderr(), err)
				return err
			}

			return render.View(cmd.OutOrStdout(), opts.output, view)
		},
	}

	searchCmd.Flags().StringVarP(&opts.variant, "variant", "v", "", "variant to search with, see the variants command")
	searchCmd.Flags().StringVarP(&opts.query, "query", "q", "", "search query")
	searchCmd.Flags().StringVarP(&opts.searchType, "search-type", "t", "", "search type, defaults to the variant's first one")
	searchCmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "endpoint URL, defaults to the configured or built-in one")
	searchCmd.Flags().StringVarP(&opts.output, "output", "o", render.FormatText, fmt.Sprintf("output format: %s", strings.Join(render.Formats(), ", ")))
	_ = searchCmd.MarkFlagRequired("variant")

	return searchCmd
}

// submission fills in what the flags left out the same way the form page does.
func (o searchOptions) submission(cfg *config.Config, variant variants.Variant, store secrets.Store) variants.Submission {
	submission := variants.Submission{
		Endpoint:   o.endpoint,
		Query:      o.query,
		SearchType: o.searchType,
		Token:      secrets.Lookup(store, variant.TokenKey()),
	}
	if variant.RequiresUserID() {
		submission.UserID = secrets.Lookup(store, variant.UserIDKey())
	}
	if len(submission.Endpoint) == 0 {
		submission.Endpoint = cfg.GetVariantEndpoint(variant.Name())
	}
	if len(submission.Endpoint) == 0 {
		submission.Endpoint = variant.DefaultEndpoint()
	}
	if searchTypes := variant.SearchTypes(); len(submission.SearchType) == 0 && len(searchTypes) > 0 {
		submission.SearchType = searchTypes[0]
	}

	return submission
}

func newVariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the available search variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, variant := range variants.List() {
				line := fmt.Sprintf("%-18s %s", variant.Name(), variant.Title())
				if searchTypes := variant.SearchTypes(); len(searchTypes) > 0 {
					line += fmt.Sprintf(" [%s]", strings.Join(searchTypes, ", "))
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newSecretsCommand(a *app) *cobra.Command {
	secretsCmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage tokens and user ids in the local vault",
	}

	secretsCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withVault(func(vault *secrets.BoltStore) error {
				return vault.Set(args[0], args[1])
			})
		},
	})
	secretsCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withVault(func(vault *secrets.BoltStore) error {
				value, err := vault.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	})
	secretsCmd.AddCommand(&cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withVault(func(vault *secrets.BoltStore) error {
				return vault.Delete(args[0])
			})
		},
	})
	secretsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored secret keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withVault(func(vault *secrets.BoltStore) error {
				keys, err := vault.Keys()
				if err != nil {
					return err
				}
				for _, key := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				return nil
			})
		},
	})

	return secretsCmd
}

func (a *app) withVault(fn func(vault *secrets.BoltStore) error) error {
	path := a.cfg.GetSecretsDBPath()
	if len(path) == 0 {
		return errNoVault
	}

	vault, err := secrets.NewBoltStore(logger.New(a.cfg.GetLogLevel()), path)
	if err != nil {
		return err
	}
	defer vault.Close()

	return fn(vault)
}
