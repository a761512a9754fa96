package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agri_advisor/internal/seed"
)

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <collection> <fixture.json>",
		Short: "Replace a document collection with the contents of a JSON fixture",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			ctx := cmd.Context()

			client, err := seed.Connect(ctx, a.cfg.Mongo.URI)
			if err != nil {
				return err
			}
			defer client.Disconnect(ctx)

			seeder := seed.NewSeeder(seed.DatabaseCollections(client.Database(a.cfg.Mongo.Database)), a.logger)
			res, err := seeder.SeedFile(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s: removed %d, inserted %d\n", res.Collection, res.Deleted, res.Inserted)
			return nil
		},
	}
}
