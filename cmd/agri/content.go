package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"agri_advisor/internal/domain"
	"agri_advisor/internal/views"
)

func homeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the latest articles and techniques",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			source, err := a.contentSource(cmd.Context())
			if err != nil {
				return err
			}
			home := views.NewHome(source, a.session, a.cfg.Views.HomeLimit, a.logger)
			defer home.Close()

			state := home.Load(cmd.Context())
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Latest articles")
			printCards(out, views.Cards(domain.KindArticle, state.Articles, a.cfg.Views.ExcerptLength))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Farming techniques")
			printCards(out, views.Cards(domain.KindTechnique, state.Techniques, a.cfg.Views.ExcerptLength))

			if state.ShowRecommendation {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Get a fertilizer recommendation with: agri recommend --help")
			}
			return nil
		},
	}
}

func articlesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "articles",
		Short: "List articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			source, err := a.contentSource(cmd.Context())
			if err != nil {
				return err
			}
			return runList(cmd, views.NewArticlesIndex(source, a.logger), a.cfg.Views.ExcerptLength)
		},
	}
}

func techniquesCommand() *cobra.Command {
	var opts domain.ListOptions

	cmd := &cobra.Command{
		Use:   "techniques",
		Short: "List farming techniques",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			source, err := a.contentSource(cmd.Context())
			if err != nil {
				return err
			}
			return runList(cmd, views.NewTechniquesIndex(source, opts, a.logger), a.cfg.Views.ExcerptLength)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "filter by category")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "filter by tag")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of techniques")
	return cmd
}

func aboutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show the articles of the about section",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			source, err := a.contentSource(cmd.Context())
			if err != nil {
				return err
			}
			return runList(cmd, views.NewAboutArticles(source, a.logger), a.cfg.Views.ExcerptLength)
		},
	}
}

func runList(cmd *cobra.Command, view *views.ListView, excerptLen int) error {
	defer view.Close()

	state := view.Load(cmd.Context())
	out := cmd.OutOrStdout()

	if state.Empty() {
		fmt.Fprintln(out, "Nothing to show yet.")
		return nil
	}
	if state.UsingFallback {
		fmt.Fprintln(out, "Showing sample articles.")
	}
	printCards(out, views.Cards(view.Kind(), state.Records, excerptLen))
	return nil
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <articles|techniques> <id>",
		Short: "Show one article or technique",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.ContentKind(args[0])
			if !kind.Valid() {
				return fmt.Errorf("unknown content kind %q", args[0])
			}

			a := fromCommand(cmd)
			source, err := a.contentSource(cmd.Context())
			if err != nil {
				return err
			}
			view := views.NewDetailView(source, kind, a.logger)
			defer view.Close()

			state := view.Load(cmd.Context(), args[1])
			if state.NotFound() {
				return errors.New("not found")
			}

			out := cmd.OutOrStdout()
			r := state.Record
			fmt.Fprintln(out, r.Title)
			fmt.Fprintf(out, "By %s", r.Author)
			if published := state.Published(); published != "" {
				fmt.Fprintf(out, " on %s", published)
			}
			fmt.Fprintln(out)
			if r.Category != "" {
				fmt.Fprintf(out, "Category: %s\n", r.Category)
			}
			if len(r.Tags) > 0 {
				fmt.Fprintf(out, "Tags: %v\n", r.Tags)
			}
			fmt.Fprintf(out, "Image: %s\n\n", r.Image)
			fmt.Fprintln(out, state.Brief())
			if r.Content != "" && r.Content != r.Description {
				fmt.Fprintln(out)
				fmt.Fprintln(out, r.Content)
			}
			return nil
		},
	}
}

func printCards(w io.Writer, cards []views.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, c := range cards {
		fmt.Fprintf(w, "- %s", c.Title)
		if c.Published != "" {
			fmt.Fprintf(w, " (%s)", c.Published)
		}
		fmt.Fprintln(w)
		if c.Excerpt != "" {
			fmt.Fprintf(w, "  %s\n", c.Excerpt)
		}
		if c.Link != "" {
			fmt.Fprintf(w, "  %s\n", c.Link)
		}
	}
}
