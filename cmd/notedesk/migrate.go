package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notedesk/internal/storage"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Applies pending schema migrations. With --down the schema is
torn down instead, which deletes all notes, categories and
attachment records.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := storage.OpenSQLite(cfg.Database.Path)
		if err != nil {
			fatal("open database", err)
		}
		defer repo.Close()

		if migrateDown {
			if err := storage.MigrateDown(repo.DB()); err != nil {
				fatal("migrate down", err)
			}
			fmt.Println("schema removed")
			return
		}
		if err := storage.MigrateUp(repo.DB()); err != nil {
			fatal("migrate up", err)
		}
		if err := storage.Seed(repo.DB()); err != nil {
			fatal("seed catalogs", err)
		}
		fmt.Println("schema up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Tear the schema down instead of up")
}
