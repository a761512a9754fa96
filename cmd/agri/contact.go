package main

import (
	"github.com/spf13/cobra"

	"agri_advisor/internal/views"
)

func contactCommand() *cobra.Command {
	var in views.ContactInput

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the AgriAdvisor team",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			form := views.NewContactForm(a.client, a.logger)
			return printForm(cmd.OutOrStdout(), form.Submit(cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "your name")
	cmd.Flags().StringVar(&in.Email, "email", "", "your email")
	cmd.Flags().StringVar(&in.Message, "message", "", "the message")
	return cmd
}
