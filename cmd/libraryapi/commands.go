package main

import (
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell/config"
)

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "libraryapi",
		Short:        "Library circulation REST API",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment (ignored when missing)")

	root.AddCommand(newServeCommand(&envFile), newMigrateCommand(&envFile))

	return root
}

func newServeCommand(envFile *string) *cobra.Command {
	var (
		addr    string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.HTTPAddr = addr
			}

			return serve(cmd.Context(), cfg, cmd.ErrOrStderr(), migrate)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides LIBRARY_HTTP_ADDR")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "create missing tables before serving")

	return cmd
}

func newMigrateCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}

			logger, err := shell.NewLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			store, closeStore, err := config.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err = store.Migrate(cmd.Context()); err != nil {
				return err
			}

			logger.Info(logMsgSchemaMigrated, logAttrDriver, cfg.DBDriver)

			return nil
		},
	}
}
