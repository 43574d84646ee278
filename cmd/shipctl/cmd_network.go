package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Gerencia a rede de distribuição da marca",
}

var networkUploadCmd = &cobra.Command{
	Use:   "upload <arquivo.csv>",
	Short: "Envia um CSV user_id,role_type para o upload em massa",
	Args:  cobra.ExactArgs(1),
	RunE:  runNetworkUpload,
}

func runNetworkUpload(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("falha ao abrir %s: %w", args[0], err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := newClient().UploadNetworkCSV(ctx, brandID, f)
	if err != nil {
		return fmt.Errorf("falha no upload: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "criados: %d  ignorados: %d  erros: %d\n", result.Created, result.Skipped, len(result.Errors))
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  linha %d: %s\n", e.Row, e.Message)
	}
	return nil
}
