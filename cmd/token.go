package cmd

import (
	"fmt"

	"go-food-ordering/config"
	"go-food-ordering/helpers"
	"go-food-ordering/models"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type tokenOptions struct {
	userID    string
	email     string
	firstName string
	lastName  string
	tenantID  string
}

// newTokenCmd mints a token with the configured secret, for calling the API
// locally without going through /auth/login.
func newTokenCmd() *cobra.Command {
	opts := &tokenOptions{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := mintToken(configPath, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.userID, "user-id", "", "user ObjectID (required)")
	cmd.Flags().StringVar(&opts.email, "email", "", "email claim")
	cmd.Flags().StringVar(&opts.firstName, "first-name", "", "first name claim")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "", "last name claim")
	cmd.Flags().StringVar(&opts.tenantID, "tenant-id", "", "company ObjectID the session is scoped to")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func mintToken(path string, opts *tokenOptions) (string, error) {
	userID, err := primitive.ObjectIDFromHex(opts.userID)
	if err != nil {
		return "", fmt.Errorf("invalid user id %q: %w", opts.userID, err)
	}
	if opts.tenantID != "" {
		if _, err := primitive.ObjectIDFromHex(opts.tenantID); err != nil {
			return "", fmt.Errorf("invalid tenant id %q: %w", opts.tenantID, err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return "", fmt.Errorf("failed to initialize config: %w", err)
	}
	tokens, err := helpers.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, cfg.Auth.Issuer)
	if err != nil {
		return "", err
	}

	return tokens.GenerateToken(&models.User{
		ID:        userID,
		Email:     opts.email,
		FirstName: opts.firstName,
		LastName:  opts.lastName,
	}, opts.tenantID)
}
