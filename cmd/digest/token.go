package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-digest/pkg/jwt"
)

func newTokenCommand(deps *commandDeps, flags *rootFlags) *cobra.Command {
	var (
		scopes []string
		expiry time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue an API access token signed with JWT_ACCESS_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := deps.setup(flags)
			if err != nil {
				return err
			}
			defer log.Sync()

			if cfg.JWT.AccessSecret == "" {
				return errors.New("JWT_ACCESS_SECRET is not set")
			}
			if expiry <= 0 {
				expiry = cfg.JWT.AccessExpiry
			}

			token, err := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.Issuer, expiry).GenerateAccessToken(args[0], scopes)
			if err != nil {
				return err
			}
			return writeOutput(deps.Stdout, flags.output,
				map[string]interface{}{"subject": args[0], "scopes": scopes, "token": token}, token)
		},
	}

	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Scopes granted to the token (repeatable)")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "Token lifetime (default JWT_ACCESS_EXPIRY)")
	return cmd
}
