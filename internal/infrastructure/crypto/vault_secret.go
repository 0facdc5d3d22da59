package crypto

import (
	"context"
	stderrors "errors"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/perimetra/devscope/internal/config"
	"github.com/perimetra/devscope/pkg/logger"
)

// signingSecretField is the key under which the token secret is stored in
// the Vault KV v2 entry.
const signingSecretField = "signing_secret"

// LoadSigningSecret resolves the process-wide signing secret once at startup.
// When a Vault address is configured the secret comes from the KV v2 mount;
// otherwise the value from the auth config is used directly. The result is
// injected into the codec and never re-read at runtime.
func LoadSigningSecret(ctx context.Context, cfg *config.Config, log logger.Logger) ([]byte, error) {
	if cfg.Vault.Address == "" {
		if cfg.Auth.SigningSecret == "" {
			return nil, stderrors.New("no signing secret configured")
		}
		return []byte(cfg.Auth.SigningSecret), nil
	}

	vaultCfg := vault.DefaultConfig()
	vaultCfg.Address = cfg.Vault.Address

	client, err := vault.NewClient(vaultCfg)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	client.SetToken(cfg.Vault.Token)

	secret, err := client.KVv2(cfg.Vault.MountPath).Get(ctx, cfg.Vault.SecretPath)
	if err != nil {
		return nil, fmt.Errorf("read signing secret from vault: %w", err)
	}

	value, ok := secret.Data[signingSecretField].(string)
	if !ok || value == "" {
		return nil, fmt.Errorf("vault secret %s/%s has no %s field",
			cfg.Vault.MountPath, cfg.Vault.SecretPath, signingSecretField)
	}

	log.Info(ctx, "signing secret loaded from vault",
		logger.String("mount", cfg.Vault.MountPath),
		logger.String("path", cfg.Vault.SecretPath),
	)
	return []byte(value), nil
}
