package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	outletx "github.com/tanpawarit/zus-chat-assistant/agent/outlet"
	productx "github.com/tanpawarit/zus-chat-assistant/agent/product"
	configx "github.com/tanpawarit/zus-chat-assistant/pkg/config"
	outletdbx "github.com/tanpawarit/zus-chat-assistant/pkg/outletdb"
)

func newIngestCommand() *cobra.Command {
	ingest := &cobra.Command{
		Use:   "ingest",
		Short: "Load seed data into the product index or the outlet database",
	}
	ingest.AddCommand(newIngestProductsCommand(), newIngestOutletsCommand())
	return ingest
}

func newIngestProductsCommand() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "products",
		Short: "Rebuild the product vector index from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open products file: %w", err)
			}
			defer f.Close()

			products, err := productx.LoadProducts(f)
			if err != nil {
				return err
			}
			store, _, err := openProductIndex()
			if err != nil {
				return err
			}
			n, err := productx.Ingest(cmd.Context(), store, products)
			if err != nil {
				return err
			}
			log.Info().Int("products", n).Str("file", file).Msg("products ingested")
			return nil
		},
	}
	c.Flags().StringVar(&file, "file", "data/products.json", "products JSON file")
	return c
}

func newIngestOutletsCommand() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   "outlets",
		Short: "Recreate the outlets table from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open outlets file: %w", err)
			}
			defer f.Close()

			records, err := outletx.LoadRecords(f)
			if err != nil {
				return err
			}
			dbCfg, err := configx.New[outletdbx.Config]("OUTLETS")
			if err != nil {
				return err
			}
			db, err := outletdbx.Open(cmd.Context(), *dbCfg)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := outletx.Ingest(cmd.Context(), db, records)
			if err != nil {
				return err
			}
			log.Info().Int("outlets", n).Str("file", file).Msg("outlets ingested")
			return nil
		},
	}
	c.Flags().StringVar(&file, "file", "data/outlets.json", "outlets JSON file")
	return c
}
