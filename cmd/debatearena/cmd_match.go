package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/debatearena/internal/types"
)

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.AddCommand(matchRunCmd, matchListCmd, matchShowCmd)

	matchRunCmd.Flags().String("topic", "", "debate topic (required)")
	matchRunCmd.Flags().String("agent-a", "", "agent A ID (required)")
	matchRunCmd.Flags().String("agent-b", "", "agent B ID (required)")
	_ = matchRunCmd.MarkFlagRequired("topic")
	_ = matchRunCmd.MarkFlagRequired("agent-a")
	_ = matchRunCmd.MarkFlagRequired("agent-b")
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run and inspect debate matches",
}

var matchRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a debate match between two agents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		agentA, _ := cmd.Flags().GetString("agent-a")
		agentB, _ := cmd.Flags().GetString("agent-b")

		cfg := loadConfig()
		setupLogging(cfg)
		stores := openStores()
		matchSvc, err := newMatchService(cfg, stores, newProvider(cfg))
		if err != nil {
			return err
		}

		m, err := matchSvc.Run(cmd.Context(), topic, types.AgentID(agentA), types.AgentID(agentB))
		if err != nil {
			return fmt.Errorf("run match: %w", err)
		}
		printMatch(m)
		return nil
	},
}

var matchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List matches, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := openStores()
		matches, err := stores.Matches.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		if len(matches) == 0 {
			fmt.Println("No matches.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTOPIC\tWINNER\tCREATED")
		for _, m := range matches {
			winner := string(m.WinnerAgentID)
			if winner == "" {
				winner = "tie"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				m.ID,
				m.Topic,
				winner,
				m.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}

var matchShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a match transcript and scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := openStores()
		m, err := stores.Matches.Get(cmd.Context(), types.MatchID(args[0]))
		if err != nil {
			return fmt.Errorf("get match: %w", err)
		}
		printMatch(m)
		return nil
	},
}

func printMatch(m *types.Match) {
	fmt.Printf("Match %s\n", m.ID)
	fmt.Printf("Topic: %s\n\n", m.Topic)
	for _, e := range m.Rounds {
		side := "A"
		if e.AgentID == m.AgentBID {
			side = "B"
		}
		fmt.Printf("[%s / %s]\n%s\n\n", e.Round, side, e.Text)
	}
	for _, s := range m.JudgeScores {
		fmt.Printf("Judge %s: A=%.2f B=%.2f\n", s.JudgeID, s.ScoreA, s.ScoreB)
	}
	if m.WinnerAgentID == "" {
		fmt.Println("Result: tie")
	} else {
		fmt.Printf("Winner: %s\n", m.WinnerAgentID)
	}
}
