package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "newsprio",
		Short:         "Rank news articles by sentiment, recency, engagement and location",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(rankCmd())
	root.AddCommand(addCmd())
	root.AddCommand(importCmd())
	root.AddCommand(weightsCmd())
	root.AddCommand(sessionCmd())

	return root
}

func rankCmd() *cobra.Command {
	var opts rankOptions

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the articles in a CSV or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "article file (.csv, .yaml)")
	cmd.Flags().StringVarP(&opts.location, "location", "l", "", "location (default: from config)")
	cmd.Flags().StringArrayVarP(&opts.weights, "weight", "w", nil, "category weight override, e.g. Sports=0.6 (repeatable)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output the report as JSON")
	cmd.Flags().BoolVar(&opts.export, "export", false, "write sorted_articles_<location>.csv")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "export directory (default: from config)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "max articles to show (0 = all)")
	cmd.Flags().BoolVar(&opts.full, "full", false, "show all derived scores in file order")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "send the report to the configured destinations")
	cmd.MarkFlagRequired("input")
	return cmd
}

func addCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an article to a CSV or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "article file (.csv, .yaml)")
	cmd.Flags().StringVar(&opts.title, "title", "", "article title")
	cmd.Flags().StringVar(&opts.content, "content", "", "article text")
	cmd.Flags().StringVar(&opts.category, "category", "", "Business, Sports, Technology, Politics or Entertainment")
	cmd.Flags().IntVar(&opts.likes, "likes", 0, "number of likes")
	cmd.Flags().IntVar(&opts.shares, "shares", 0, "number of shares")
	cmd.Flags().StringVar(&opts.date, "date", "", "publication date YYYY-MM-DD (default: today)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("category")
	return cmd
}

func importCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import articles from RSS/Atom feeds into a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "article file to append to (.csv, .yaml)")
	cmd.Flags().StringArrayVar(&opts.feeds, "feed", nil, "feed URL (repeatable; default: feeds from config)")
	cmd.Flags().StringVar(&opts.category, "category", "", "category for every imported entry (default: classify by keywords)")
	cmd.Flags().BoolVar(&opts.fetchContent, "fetch-content", false, "use the linked page's text as content")
	cmd.MarkFlagRequired("input")
	return cmd
}

func weightsCmd() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Show category weights and location multipliers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeights(cmd.OutOrStdout(), location)
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "location (default: from config)")
	return cmd
}

func sessionCmd() *cobra.Command {
	var opts sessionOptions

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive ranking session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.location, "location", "l", "", "starting location (default: from config)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "preload articles from a file")
	cmd.Flags().StringVar(&opts.db, "db", "", "session database (default: from config, :memory:)")
	return cmd
}
