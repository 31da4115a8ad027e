package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pickscope/pickscope/pkg/store"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove duplicate picks from the store",
	Long: `Deduplicates the JSON store using the full-legs key (date, source,
every leg's event and bet, odds). When duplicates collide, a settled copy
wins over a pending one. The store is rewritten sorted by date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		storePath := viper.GetString("store.path")
		if v, _ := cmd.Flags().GetString("store"); v != "" {
			storePath = v
		}

		res := store.Load(storePath)
		switch res.State {
		case store.Missing:
			fmt.Printf("Store not found at %s\n", storePath)
			return nil
		case store.Corrupt:
			return fmt.Errorf("store %s is unreadable: %w", storePath, res.Err)
		}

		if len(res.Store.Picks) == 0 {
			fmt.Println("Store is empty.")
			return nil
		}

		removed := res.Store.Dedupe()
		if err := store.Save(storePath, res.Store); err != nil {
			return err
		}
		fmt.Printf("Successfully cleaned %d duplicates from %s.\n", removed, storePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().String("store", "", "Path to the JSON store (overrides store.path)")
}
