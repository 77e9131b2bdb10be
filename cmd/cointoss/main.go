// Package main provides the cointoss command line: play matches in the
// terminal, verify a revealed seed, list stored commitments or run the server.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"coinTossServer/config"
	"coinTossServer/crypto"
	"coinTossServer/db"
	"coinTossServer/game"
	"coinTossServer/match"
	"coinTossServer/report"
	"coinTossServer/server"
	"coinTossServer/state"

	"github.com/spf13/cobra"
)

// matchFlags are shared by simulate and verify
type matchFlags struct {
	configPath string
	games      int
	endgame1   string
	endgame2   string
	bins       int
	tieBreak   string
	maxDraws   int
	width      int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cointoss",
		Short:        "Two-player coin toss waiting game",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

func (f *matchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a TOML config file")
	cmd.Flags().IntVar(&f.games, "games", config.DefaultTrialCount, "number of games per player")
	cmd.Flags().StringVar(&f.endgame1, "p1", config.DefaultEndgame1, "player 1 endgame (H/T sequence)")
	cmd.Flags().StringVar(&f.endgame2, "p2", config.DefaultEndgame2, "player 2 endgame (H/T sequence)")
	cmd.Flags().IntVar(&f.bins, "bins", game.DefaultBinCount, "histogram bins")
	cmd.Flags().StringVar(&f.tieBreak, "tie-break", string(game.FewerTosses), "fewer-tosses, more-tosses or disabled")
	cmd.Flags().IntVar(&f.maxDraws, "max-draws", config.DefaultMaxDraws, "toss cap per game (0 = unbounded)")
	cmd.Flags().IntVar(&f.width, "width", 0, "histogram width (0 = terminal width)")
}

// matchConfig resolves flags over the config file and environment.
// Flags given explicitly always win.
func (f *matchFlags) matchConfig(cmd *cobra.Command) (game.MatchConfig, error) {
	settings, err := config.Load(f.configPath)
	if err != nil {
		return game.MatchConfig{}, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := game.MatchConfig{
		TrialCount: f.games,
		Endgame1:   f.endgame1,
		Endgame2:   f.endgame2,
		BinCount:   settings.BinCount,
		TieBreak:   settings.TieBreak,
		MaxDraws:   settings.MaxDraws,
	}
	if cmd.Flags().Changed("bins") {
		cfg.BinCount = f.bins
	}
	if cmd.Flags().Changed("max-draws") {
		cfg.MaxDraws = f.maxDraws
	}
	if cmd.Flags().Changed("tie-break") {
		tb, err := game.ParseTieBreak(f.tieBreak)
		if err != nil {
			return game.MatchConfig{}, err
		}
		cfg.TieBreak = tb
	}
	if cfg.BinCount < 1 || cfg.BinCount > config.MaxBinCount {
		return game.MatchConfig{}, &game.ConfigurationError{
			Field:  "binCount",
			Value:  fmt.Sprint(cfg.BinCount),
			Reason: fmt.Sprintf("bins must be within [1, %d]", config.MaxBinCount),
		}
	}
	return cfg, nil
}

func newSimulateCmd() *cobra.Command {
	var (
		flags matchFlags
		seed  string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a match and print both histograms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.matchConfig(cmd)
			if err != nil {
				return err
			}
			if seed == "" {
				seed, _, err = crypto.GenerateServerSeed()
				if err != nil {
					return err
				}
			}

			result, err := game.PlayMatch(cfg, seed)
			if err != nil {
				return err
			}
			if err := printMatch(cmd.OutOrStdout(), result, flags.width); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nSeed: %s\nSeed hash: %s\n", seed, result.ServerSeedHash)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&seed, "seed", "", "server seed (random when empty)")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var (
		flags matchFlags
		seed  string
		hash  string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a revealed seed against its hash and replay the match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.matchConfig(cmd)
			if err != nil {
				return err
			}

			result, err := game.VerifyMatch(seed, hash, cfg)
			if errors.Is(err, game.ErrSeedMismatch) {
				return fmt.Errorf("❌ %w", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, "✅ Seed matches commitment"); err != nil {
				return err
			}
			return printMatch(out, result, flags.width)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&seed, "seed", "", "revealed server seed")
	cmd.Flags().StringVar(&hash, "hash", "", "server seed hash published with the match")
	cmd.MarkFlagRequired("seed")
	cmd.MarkFlagRequired("hash")
	return cmd
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			settings.ConfigureLogging()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, settings)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		configPath string
		limit      int
		replay     bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List match commitments stored in PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := db.InitPostgres(settings.DatabaseURL); err != nil {
				return fmt.Errorf("failed to init postgres: %w", err)
			}
			defer db.ClosePostgres()

			commitments, err := db.GetRecentMatchCommitments(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(commitments) == 0 {
				_, err := fmt.Fprintln(out, "No matches found.")
				return err
			}
			for _, m := range commitments {
				line := fmt.Sprintf("%s  %s  %d games  %s vs %s  %s",
					m.CreatedAt.Format("2006-01-02 15:04:05"), m.MatchID,
					m.Config.TrialCount, m.Config.Endgame1, m.Config.Endgame2, m.Config.TieBreak)
				if replay {
					result, err := replayCommitment(m)
					if err != nil {
						line += "  ❌ " + err.Error()
					} else {
						line += fmt.Sprintf("  %.1f vs %.1f -> %s",
							result.Player1.Summary.Mean, result.Player2.Summary.Mean, result.Winner)
					}
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().IntVar(&limit, "limit", config.MaxMatchHistory, "number of matches to list")
	cmd.Flags().BoolVar(&replay, "replay", false, "replay each match from its seed and show the winner")
	return cmd
}

// replayCommitment re-derives a stored match under the same limits the
// server applied when it was played.
func replayCommitment(m state.MatchCommitment) (game.MatchResult, error) {
	if err := match.ValidateConfig(m.Config); err != nil {
		return game.MatchResult{}, err
	}
	return game.VerifyMatch(m.ServerSeed, m.ServerSeedHash, m.Config)
}

func printMatch(w io.Writer, m game.MatchResult, width int) error {
	players := []game.PlayerResult{m.Player1, m.Player2}
	for i, p := range players {
		title := fmt.Sprintf("Player %d: %s (%d games)", i+1, p.Endgame, p.Summary.Trials)
		if err := report.RenderHistogram(w, title, p.Summary, width); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return report.RenderOutcome(w, m)
}
