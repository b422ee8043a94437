package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/debatearena/internal/types"
)

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.AddCommand(agentAddCmd, agentListCmd)

	agentAddCmd.Flags().String("name", "", "agent name (required)")
	agentAddCmd.Flags().StringSlice("pack", nil, "knowledge pack ID (repeatable, at least one required)")
	agentAddCmd.Flags().String("owner", "", "owner identifier")
	agentAddCmd.Flags().String("specialization", "", "debate specialization")
	_ = agentAddCmd.MarkFlagRequired("name")
	_ = agentAddCmd.MarkFlagRequired("pack")
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage debate agents",
}

var agentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a debate agent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		packs, _ := cmd.Flags().GetStringSlice("pack")
		owner, _ := cmd.Flags().GetString("owner")
		specialization, _ := cmd.Flags().GetString("specialization")

		stores := openStores()
		packIDs := make([]types.PackID, 0, len(packs))
		for _, id := range packs {
			if _, err := stores.Packs.Get(cmd.Context(), types.PackID(id)); err != nil {
				return fmt.Errorf("resolve pack: %w", err)
			}
			packIDs = append(packIDs, types.PackID(id))
		}

		agent := &types.Agent{
			Name:           name,
			PackIDs:        packIDs,
			OwnerID:        owner,
			Specialization: specialization,
		}
		if err := stores.Agents.Create(cmd.Context(), agent); err != nil {
			return fmt.Errorf("create agent: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Agent %q created (%s, rating %d).\n", name, agent.ID, agent.Rating)
		return nil
	},
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents ranked by rating",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := openStores()
		agents, err := stores.Agents.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list agents: %w", err)
		}
		if len(agents) == 0 {
			fmt.Println("No agents.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tNAME\tRATING\tPACKS\tID")
		for i, a := range agents {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n",
				i+1,
				a.Name,
				a.Rating,
				len(a.PackIDs),
				a.ID,
			)
		}
		return w.Flush()
	},
}
