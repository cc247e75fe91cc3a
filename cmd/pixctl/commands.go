package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pix-gateway/config"
	httpHandler "pix-gateway/internal/adapter/http/handler"
	"pix-gateway/internal/adapter/psp"
	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func webhookURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook-url",
		Short: "Print the HMAC-signed webhook URL to register with the PSP",
		Long: `Print the webhook URL with its hmac query parameter. The PSP appends
/pix to the registered URL; with --ignore-suffix the URL ends in an empty
ignorar parameter that absorbs it, so the signed path is the one called.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Webhook.PublicBaseURL == "" || cfg.Webhook.HMACSecret == "" {
				return errors.New("webhook.public_base_url and webhook.hmac_secret are required")
			}
			path, _ := cmd.Flags().GetString("path")

			signed, err := service.NewHMACSignatureService().SignedURL(
				cfg.Webhook.HMACSecret,
				service.WebhookBase(cfg.Webhook.PublicBaseURL, path),
			)
			if err != nil {
				return err
			}
			if ignore, _ := cmd.Flags().GetBool("ignore-suffix"); ignore {
				signed += "&ignorar="
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().String("path", "/webhook/pix", "Webhook path on the gateway")
	cmd.Flags().Bool("ignore-suffix", true, "Append an empty ignorar parameter for the PSP's path suffix")
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a tenant user or admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is required")
			}

			tenant, _ := cmd.Flags().GetString("tenant")
			user, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			tenantID, err := uuid.Parse(tenant)
			if err != nil {
				return fmt.Errorf("--tenant: %w", err)
			}
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			actor := domain.ActorType(role)
			if actor != domain.ActorTypeUser && actor != domain.ActorTypeAdmin {
				return fmt.Errorf("--role must be user or admin, got %q", role)
			}
			if ttl <= 0 {
				ttl = cfg.JWT.Expiry
			}

			tokens := service.NewJWTTokenService(cfg.JWT.Secret, ttl, cfg.JWT.Issuer)
			token, expires, err := tokens.Generate(ports.TokenClaims{TenantID: tenantID, UserID: userID, Role: actor})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().String("tenant", "", "Tenant id")
	cmd.Flags().String("user", "", "User or admin id")
	cmd.Flags().String("role", string(domain.ActorTypeUser), "user or admin")
	cmd.Flags().Duration("ttl", 0, "Token lifetime (default jwt.expiry)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config-check",
		Short: "Validate configuration and load the TLS material",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var failed []string
			check := func(name string, err error) {
				if err != nil {
					fmt.Fprintf(out, "  FAIL  %s: %v\n", name, err)
					failed = append(failed, name)
					return
				}
				fmt.Fprintf(out, "  ok    %s\n", name)
			}

			fmt.Fprintln(out, "PIX gateway configuration")
			fmt.Fprintln(out, strings.Repeat("=", 40))

			check("settings", cfg.Validate())
			if cfg.Webhook.CertFile != "" && cfg.Webhook.PSPCAFile != "" {
				_, err := httpHandler.ServerTLSConfig(cfg.Webhook.CertFile, cfg.Webhook.KeyFile, cfg.Webhook.PSPCAFile)
				check("webhook tls", err)
			}
			_, err = psp.LoadCertificate(psp.CertificateSource{
				P12File:     cfg.PSP.P12File,
				P12Password: cfg.PSP.P12Password,
				CertFile:    cfg.PSP.CertFile,
				KeyFile:     cfg.PSP.KeyFile,
			})
			check("psp client certificate", err)

			if len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed: %s", len(failed), strings.Join(failed, ", "))
			}
			fmt.Fprintln(out, "configuration ok")
			return nil
		},
	}
}
