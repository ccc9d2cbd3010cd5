package commands

import (
	"fmt"
	"os"

	"github.com/wolfeidau/traba/internal/auth"
)

// KeygenCmd writes a new session token signing key.
type KeygenCmd struct {
	Out string `help:"write the key to this file instead of stdout" short:"o" type:"path"`
}

func (c *KeygenCmd) Run() error {
	key, err := auth.GenerateKeyPEM()
	if err != nil {
		return err
	}

	if c.Out == "" {
		_, err = fmt.Fprint(os.Stdout, key)
		return err
	}

	if err := os.WriteFile(c.Out, []byte(key), 0600); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}
	return nil
}
