// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the papers-search CLI: ranked paper
// search with journal-category and year filters, shareable saved searches,
// and citation lookups against a papers search service.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papers-search/internal/api"
	"github.com/pdiddy/papers-search/internal/history"
	"github.com/pdiddy/papers-search/internal/secrets"
	"github.com/pdiddy/papers-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// logger is configured by the root command before any subcommand runs.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// rootCmd is the base command for the papers-search CLI.
var rootCmd = &cobra.Command{
	Use:   "papers-search",
	Short: "Search economics papers by meaning, share the results",
	Long: heredoc.Doc(`
		papers-search queries a semantic search service over economics journals
		and working paper series. Searches can be narrowed by journal category,
		publication year, and journal, title, or author substrings.

		A search can be saved behind a short handle. The share link carries that
		handle and restores the same filters and results anywhere.
	`),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(cmd.ErrOrStderr(), verbose)

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetDefault("api_base", api.DefaultBaseURL)
	viper.SetDefault("timeout", api.DefaultTimeout)
	viper.SetDefault("user_agent", "papers-search/"+version)
	viper.SetDefault("max_retries", 2)
	viper.SetDefault("share_base", "http://localhost:5173/")
	viper.SetDefault("lookup_cache_size", 256)
	viper.SetDefault("history_db", defaultHistoryPath())

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./papers-search.yaml or ~/.config/papers-search/papers-search.yaml)")
	rootCmd.PersistentFlags().String("api-base", "", "search service base URL (overrides api_base)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests and retries")
	_ = viper.BindPFlag("api_base", rootCmd.PersistentFlags().Lookup("api-base"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("papers-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "papers-search"))
		}
	}

	viper.SetEnvPrefix("PAPERS_SEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".papers-search", "history.db")
	}
	return filepath.Join(home, ".local", "share", "papers-search", "history.db")
}

func clientConfig() types.ClientConfig {
	return types.ClientConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user_agent"),
		},
		BaseURL:         viper.GetString("api_base"),
		APIKey:          loadedSecrets.Get(secrets.APIKeyFile, viper.GetString("api_key")),
		MaxRetries:      viper.GetInt("max_retries"),
		LookupCacheSize: viper.GetInt("lookup_cache_size"),
	}
}

func newClient() (*api.Client, error) {
	return api.New(nil, clientConfig(), logger)
}

func openHistory() (*history.Store, error) {
	return history.Open(types.HistoryConfig{Path: viper.GetString("history_db")})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
