package main

import (
	"context"

	"github.com/spf13/cobra"
)

type cli struct {
	configPath string
	debug      bool
	offline    bool
	app        *app
}

func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:          "agri",
		Short:        "AgriAdvisor command-line client",
		Long:         `Browse farming articles and techniques, manage your session and get fertilizer recommendations.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), c.configPath, cmd.Flags().Changed("config"), c.debug, c.offline)
			if err != nil {
				return err
			}
			c.app = a
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "config.yaml", "path to config file")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&c.offline, "offline", false, "read articles and techniques from the mirror database")

	root.AddCommand(
		loginCommand(),
		registerCommand(),
		logoutCommand(),
		whoamiCommand(),
		homeCommand(),
		articlesCommand(),
		techniquesCommand(),
		aboutCommand(),
		showCommand(),
		recommendCommand(),
		historyCommand(),
		contactCommand(),
		seedCommand(),
	)
	return root
}
