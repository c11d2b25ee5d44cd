package cmd

import (
	"fmt"

	"github.com/hasdev/api-gateway/pkg/gwerr"
)

// friendly adds guidance to errors the user can act on.
func friendly(err error) error {
	switch {
	case err == nil:
		return nil
	case gwerr.IsCode(err, gwerr.CodeUnauthorized):
		return fmt.Errorf("authentication required: run 'gatewayctl login' (%w)", err)
	case gwerr.IsCode(err, gwerr.CodeNotFound):
		return fmt.Errorf("not found: %w", err)
	default:
		return err
	}
}
