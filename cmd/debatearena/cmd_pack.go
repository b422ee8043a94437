package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/debatearena/internal/ingest"
	"github.com/user/debatearena/internal/state"
	"github.com/user/debatearena/internal/types"
)

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.AddCommand(packAddCmd, packImportCmd, packListCmd)

	packAddCmd.Flags().String("title", "", "pack title (required)")
	packAddCmd.Flags().String("file", "", "file with the pack content (required)")
	packAddCmd.Flags().String("owner", "", "owner identifier")
	_ = packAddCmd.MarkFlagRequired("title")
	_ = packAddCmd.MarkFlagRequired("file")

	packImportCmd.Flags().String("title", "", "pack title (required)")
	packImportCmd.Flags().String("url", "", "page URL to import as markdown (required)")
	packImportCmd.Flags().String("owner", "", "owner identifier")
	_ = packImportCmd.MarkFlagRequired("title")
	_ = packImportCmd.MarkFlagRequired("url")
}

func openStores() *state.Stores {
	cfg := loadConfig()
	setupLogging(cfg)
	return state.Open(cfg.DataDir)
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Manage knowledge packs",
}

var packAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a knowledge pack from a local file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		file, _ := cmd.Flags().GetString("file")
		owner, _ := cmd.Flags().GetString("owner")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read content file: %w", err)
		}

		stores := openStores()
		pack := &types.KnowledgePack{Title: title, Content: string(content), OwnerID: owner}
		if err := stores.Packs.Create(cmd.Context(), pack); err != nil {
			return fmt.Errorf("create pack: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Pack %q created (%s).\n", title, pack.ID)
		return nil
	},
}

var packImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a knowledge pack from a URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		url, _ := cmd.Flags().GetString("url")
		owner, _ := cmd.Flags().GetString("owner")

		content, err := ingest.NewFetcher().Fetch(cmd.Context(), url)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", url, err)
		}

		stores := openStores()
		pack := &types.KnowledgePack{Title: title, Content: content, OwnerID: owner}
		if err := stores.Packs.Create(cmd.Context(), pack); err != nil {
			return fmt.Errorf("create pack: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Pack %q imported (%s, %d chars).\n", title, pack.ID, len(content))
		return nil
	},
}

var packListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all knowledge packs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stores := openStores()
		packs, err := stores.Packs.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list packs: %w", err)
		}
		if len(packs) == 0 {
			fmt.Println("No knowledge packs.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCHARS\tCREATED")
		for _, p := range packs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				p.ID,
				p.Title,
				len(p.Content),
				p.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}
