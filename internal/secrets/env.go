package secrets

import (
	"context"
	"errors"
	"os"
)

// EnvSource reads credentials from environment variables, for local runs
// without a Vault token.
type EnvSource struct{}

func (EnvSource) Credentials(_ context.Context) (Credentials, error) {
	creds := Credentials{
		POSClientID:     os.Getenv("POS_CLIENT_ID"),
		POSClientSecret: os.Getenv("POS_CLIENT_SECRET"),
		POSStaticToken:  os.Getenv("POS_STATIC_TOKEN"),
		PayrollUsername: os.Getenv("PAYROLL_USERNAME"),
		PayrollPassword: os.Getenv("PAYROLL_PASSWORD"),
	}
	if creds == (Credentials{}) {
		return Credentials{}, errors.New("no credentials in environment")
	}
	return creds, nil
}
