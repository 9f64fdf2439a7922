package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	mintSubject  string
	mintValidity time.Duration
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint an admin session token locally for testing",
	Long: `Signs an admin session token with the server's signing key. Only useful
when you hold the key the server was started with (AEGIS_SIGNING_KEY).`,
	Example: `  AEGIS_SIGNING_KEY=... aegis debug mint --sub ops@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		signingKey := []byte(os.Getenv("AEGIS_SIGNING_KEY"))
		if len(signingKey) == 0 {
			return fmt.Errorf("AEGIS_SIGNING_KEY must be set")
		}

		now := time.Now()
		claims := jwt.MapClaims{
			"sub":   mintSubject,
			"roles": []string{"admin"},
			"iat":   now.Unix(),
			"exp":   now.Add(mintValidity).Unix(),
		}

		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
		if err != nil {
			return fmt.Errorf("signing token: %w", err)
		}

		log.Debug().Msg("Token minted successfully")
		fmt.Println(token)
		return nil
	},
}

func init() {
	debugCmd.AddCommand(mintCmd)

	mintCmd.Flags().StringVar(&mintSubject, "sub", "debug", "Subject claim for the session token")
	mintCmd.Flags().DurationVar(&mintValidity, "validity", time.Hour, "How long the token stays valid")
}
