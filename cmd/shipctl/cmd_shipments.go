package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"goship/internal/domain"
	"goship/internal/pkg/apiclient"
	"goship/internal/shipmentstatus"
)

var (
	bucket string
	asJSON bool
)

var shipmentsCmd = &cobra.Command{
	Use:   "shipments",
	Short: "Consulta envios",
}

var shipmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista envios filtrados por bucket",
	Args:  cobra.NoArgs,
	RunE:  runShipmentsList,
}

var shipmentsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Mostra os contadores por bucket",
	Args:  cobra.NoArgs,
	RunE:  runShipmentsStats,
}

func runShipmentsList(cmd *cobra.Command, args []string) error {
	b, err := shipmentstatus.ParseBucket(bucket)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	list, err := newClient().ListShipments(ctx, apiclient.ShipmentFilter{BrandID: brandID, Bucket: string(b)})
	if err != nil {
		return fmt.Errorf("falha ao listar envios: %w", err)
	}
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), list)
	}
	return writeShipmentTable(cmd.OutOrStdout(), list)
}

func runShipmentsStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	stats, err := newClient().Stats(ctx, apiclient.ShipmentFilter{BrandID: brandID})
	if err != nil {
		return fmt.Errorf("falha ao obter estatísticas: %w", err)
	}
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, b := range shipmentstatus.Buckets {
		fmt.Fprintf(tw, "%s\t%d\n", b, shipmentstatus.StatFor(stats, b))
	}
	return tw.Flush()
}

func writeShipmentTable(w io.Writer, list []domain.Shipment) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCOURIER\tCAIXAS")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, shipmentstatus.Classify(s.Status).Label, s.Courier, len(s.Boxes))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
