package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexiusacademia/gorebar/internal/server"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the HTTP API",
	Long: `Sign an HS256 token with server.token_key for use with
'Authorization: Bearer <token>' on POST /api/cog.

Examples:
  GOREBAR_SERVER_TOKEN_KEY=secret gorebar token --subject ci
  gorebar token --subject alice --ttl 2h`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject [required]")
	tokenCmd.MarkFlagRequired("subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Server.TokenKey == "" {
		return errors.New("server.token_key is not set")
	}
	if tokenTTL <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", tokenTTL)
	}

	token, err := server.NewAuth([]byte(cfg.Server.TokenKey)).Issue(tokenSubject, tokenTTL, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
