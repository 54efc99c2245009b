package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/models"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/scoreupdate"
)

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [game...]",
		Short: "Print leaderboards (all known games by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			games := args
			if len(games) == 0 {
				games = c.arcade.Ledger.Games()
			}
			for _, game := range games {
				board := c.arcade.Ledger.GetLeaderboard(cmd.Context(), game)
				out, err := renderLeaderboard(game, board)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every leaderboard as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := c.arcade.Ledger.Export(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(blob))
				return err
			}
			return os.WriteFile(output, blob, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace leaderboards with the ones in an export file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				blob []byte
				err  error
			)
			if args[0] == "-" {
				blob, err = io.ReadAll(cmd.InOrStdin())
			} else {
				blob, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			ok, err := c.arcade.Ledger.Import(cmd.Context(), blob)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("invalid score import: nothing was changed")
			}
			pterm.Fprintln(cmd.OutOrStdout(), pterm.Green("Scores imported"))
			return nil
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <game>",
		Short: "Remove all scores for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.arcade.Ledger.Clear(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Fprintln(cmd.OutOrStdout(), "Cleared", args[0])
			return nil
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install demo scores into empty leaderboards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.arcade.SeedDemo(cmd.Context())
		},
	}
}

func (c *cli) submitCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "submit <game> <score>",
		Short: "Report a final score as a game would",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompter := &linePrompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			handler := scoreupdate.NewHandler(c.arcade.Ledger, prompter, c.arcade.Logger)

			outcome, err := handler.Handle(cmd.Context(), models.ScoreUpdate{
				Type:       models.ScoreUpdateType,
				Game:       args[0],
				Score:      args[1],
				PlayerName: name,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case !outcome.Qualified:
				pterm.Fprintln(out, "Score", outcome.Score, "does not make the", args[0], "leaderboard")
			case !outcome.Recorded:
				pterm.Fprintln(out, "No name entered, score not saved")
			default:
				rendered, err := renderLeaderboard(args[0], outcome.Leaderboard)
				if err != nil {
					return err
				}
				pterm.Fprintln(out, rendered)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "player name (asked for when omitted)")
	return cmd
}

// linePrompter asks for a name on out and reads one line from in.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *linePrompter) PromptName(ctx context.Context, game string, score int64) (string, error) {
	fmt.Fprintf(p.out, "NEW HIGH SCORE! %d on %s. Enter your name: ", score, game)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
