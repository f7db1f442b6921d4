package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/class_credits_crm/internal/middleware"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (defaults to JWT_EXPIRY_DURATION)")
}

var tokenCmd = &cobra.Command{
	Use:   "token OPERATOR_ID",
	Short: "Issue a bearer token for a front-desk operator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl <= 0 {
			ttl = cfg.JWTExpiryDuration
		}
		token, err := middleware.IssueOperatorToken(cfg.JWTSecret, cfg.JWTIssuer, args[0], ttl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}
