package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"agri_advisor/internal/domain"
	"agri_advisor/internal/recommend"
	"agri_advisor/internal/views"
)

func recommendCommand() *cobra.Command {
	var (
		in   views.RecommendationInput
		tab  string
		save bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Get a fertilizer recommendation for your soil and crop",
		Long: fmt.Sprintf("Get a fertilizer recommendation.\n\nCrop types: %s\nSoil types: %s",
			strings.Join(domain.CropTypes, ", "), strings.Join(domain.SoilTypes, ", ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			ctx := cmd.Context()

			var selected views.Tab
			if tab != "" {
				t, err := views.ParseTab(tab)
				if err != nil {
					return err
				}
				selected = t
			}

			var saver views.HistorySaver
			if save {
				// Save needs the profile, so wait for it before submitting.
				a.session.Wait()
				history, err := a.history(ctx)
				if err != nil {
					return err
				}
				saver = history
			}

			session := recommend.NewSession(a.session, a.client, a.logger)
			form := views.NewRecommendationForm(session, saver, a.session, a.logger)
			defer form.Close()

			state := form.Submit(ctx, in)
			out := cmd.OutOrStdout()
			if len(state.Fields) > 0 {
				printFields(out, state.Fields)
				return errors.New("invalid input")
			}
			if state.Error != "" {
				return errors.New(state.Error)
			}

			result := state.Result
			if selected != "" {
				if err := result.Select(selected); err != nil {
					return err
				}
			}
			printResult(out, result, selected == "")

			if save {
				msg, err := form.Save(ctx)
				if err != nil {
					return errors.New(domain.Message(err))
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, msg)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.N, "n", "", "nitrogen (N)")
	f.StringVar(&in.P, "p", "", "phosphorus (P)")
	f.StringVar(&in.K, "k", "", "potassium (K)")
	f.StringVar(&in.PH, "ph", "", "soil pH")
	f.StringVar(&in.Moisture, "moisture", "", "soil moisture")
	f.StringVar(&in.Temperature, "temperature", "", "temperature")
	f.StringVar(&in.CropType, "crop", "", "crop type")
	f.StringVar(&in.SoilType, "soil", "", "soil type")
	f.StringVar(&tab, "tab", "", "show only one tab: desc, usage, price or alts")
	f.BoolVar(&save, "save", false, "save the recommendation to your history")
	return cmd
}

func printResult(w io.Writer, result *views.ResultView, all bool) {
	fmt.Fprintf(w, "Recommended fertilizer: %s\n", result.Title())
	if img := result.Image(); img != "" {
		fmt.Fprintf(w, "Image: %s\n", img)
	}

	tabs := []views.Tab{result.Active()}
	if all {
		tabs = views.Tabs
	}
	for _, t := range tabs {
		fmt.Fprintf(w, "\n[%s]\n%s\n", t.Label(), result.RenderTab(t))
	}
}

func historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your saved recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			a.session.Wait()

			user := a.session.State().User
			if user == nil {
				return errors.New(views.MsgSaveLogin)
			}

			history, err := a.history(cmd.Context())
			if err != nil {
				return err
			}

			entries, err := history.List(cmd.Context(), user.Email, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No saved recommendations.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-12s %s/%s  N=%g P=%g K=%g pH=%g\n",
					e.SavedAt.Format("2006-01-02 15:04"),
					e.Result.Fertilizer,
					e.Request.CropType, e.Request.SoilType,
					e.Request.N, e.Request.P, e.Request.K, e.Request.PH,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries")
	return cmd
}
