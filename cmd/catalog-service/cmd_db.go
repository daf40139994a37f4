package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, db, err := bootDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample products into an empty catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, db, err := bootDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		inserted, err := newProductService(db).Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
		if inserted == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog already has products, nothing to seed")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d sample products\n", inserted)
		return nil
	},
}

var generateCount int

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic products and rebuild the search index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, db, err := bootDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := newProductService(db).GenerateProducts(cmd.Context(), generateCount); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully generated %d products\n", generateCount)
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1000, "number of products to generate")
}
