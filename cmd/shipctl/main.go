// shipctl é a CLI de operação da API GoShip.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"goship/internal/pkg/apiclient"
)

var (
	apiURL  string
	token   string
	brandID string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "shipctl",
	Short: "shipctl - operação de envios GoShip",
	Long: `shipctl consulta envios e gerencia a rede de distribuição via API GoShip.

O token é lido de --token ou da variável GOSHIP_TOKEN.`,
	SilenceUsage: true,
}

func init() {
	defaultURL := os.Getenv("GOSHIP_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "URL base da API (GOSHIP_API_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "token Bearer (padrão: $GOSHIP_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&brandID, "brand-id", "", "marca alvo (obrigatório para admin)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "timeout por operação")

	shipmentsListCmd.Flags().StringVar(&bucket, "bucket", "all", "bucket de status (all, pending, in_transit, delivered, issues, ...)")
	shipmentsListCmd.Flags().BoolVar(&asJSON, "json", false, "saída em JSON")
	shipmentsStatsCmd.Flags().BoolVar(&asJSON, "json", false, "saída em JSON")

	shipmentsCmd.AddCommand(shipmentsListCmd, shipmentsStatsCmd)
	networkCmd.AddCommand(networkUploadCmd)
	rootCmd.AddCommand(shipmentsCmd, networkCmd)
}

func newClient() *apiclient.Client {
	var creds apiclient.CredentialProvider = apiclient.EnvToken{}
	if token != "" {
		creds = apiclient.StaticToken(token)
	}
	return apiclient.New(apiURL, creds)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
