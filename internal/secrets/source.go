// Package secrets resolves feed credentials at startup. Production reads
// them from Vault; local runs fall back to environment variables.
package secrets

import (
	"context"
	"errors"
	"fmt"
)

// Credentials carries everything the feed clients need to authenticate.
type Credentials struct {
	POSClientID     string
	POSClientSecret string
	POSStaticToken  string
	PayrollUsername string
	PayrollPassword string
}

// Source resolves credentials from one backing store.
type Source interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// Chain tries each source in order and returns the first that succeeds.
type Chain []Source

func (c Chain) Credentials(ctx context.Context) (Credentials, error) {
	var errs []error
	for _, src := range c {
		creds, err := src.Credentials(ctx)
		if err == nil {
			return creds, nil
		}
		errs = append(errs, err)
	}
	return Credentials{}, fmt.Errorf("no secret source succeeded: %w", errors.Join(errs...))
}
