package secrets

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"
)

// VaultSource reads credentials from one Vault KV v2 secret.
type VaultSource struct {
	client *vault.Client
	mount  string
	path   string
}

// NewVaultSource builds a token-authenticated Vault client. The mount and
// path locate the KV v2 secret holding the feed credentials.
func NewVaultSource(addr, token, mount, path string) (*VaultSource, error) {
	cfg := vault.DefaultConfig()
	cfg.Address = addr
	client, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	client.SetToken(token)
	return &VaultSource{client: client, mount: mount, path: path}, nil
}

func (s *VaultSource) Credentials(ctx context.Context) (Credentials, error) {
	secret, err := s.client.KVv2(s.mount).Get(ctx, s.path)
	if err != nil {
		return Credentials{}, fmt.Errorf("vault read %s/%s: %w", s.mount, s.path, err)
	}
	creds := Credentials{
		POSClientID:     str(secret.Data, "pos_client_id"),
		POSClientSecret: str(secret.Data, "pos_client_secret"),
		POSStaticToken:  str(secret.Data, "pos_static_token"),
		PayrollUsername: str(secret.Data, "payroll_username"),
		PayrollPassword: str(secret.Data, "payroll_password"),
	}
	if creds == (Credentials{}) {
		return Credentials{}, fmt.Errorf("vault secret %s/%s holds no known keys", s.mount, s.path)
	}
	return creds, nil
}

func str(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
