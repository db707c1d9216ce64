package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"festreg/config"
	"festreg/internal/adapters/auth"
	"festreg/internal/domain"
)

var (
	tokenEmail  string
	tokenRoles  []string
	tokenExpiry time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue an access token signed with JWT_SECRET (development)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(args[0], tokenEmail, tokenRoles, tokenExpiry)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", []string{domain.RoleParticipant}, "role claim (repeatable)")
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 24*time.Hour, "token lifetime")
}
