package main

import (
	"errors"
	"fmt"

	"github.com/ai8future/keywrap/internal/store"
	"github.com/spf13/cobra"
)

var (
	initSalt    string
	initRootKey string
	initForce   bool
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Wrap a root key under a new passphrase and store the envelope",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := recordName(args)

		if !initForce {
			if _, err := envelopes.Get(name); err == nil {
				return fmt.Errorf("record %q already exists (use --force to replace it)", name)
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}

		salt := initSalt
		if salt == "" {
			var err error
			if salt, err = generateSalt(); err != nil {
				return err
			}
			Logger.Infof("generated new salt for %s", name)
		}

		passphrase, err := readNewPassphrase(cmd, "New passphrase: ")
		if err != nil {
			return err
		}

		stop := startSpinner("Deriving key...")
		env, err := boundary.SetNewSecret(cmd.Context(), string(passphrase), salt, initRootKey)
		stop()
		if err != nil {
			return userError(err)
		}

		if err := envelopes.Put(name, store.Record{Salt: salt, Envelope: env}); err != nil {
			return Logger.ErrorfAndReturn("failed to save envelope: %v", err)
		}

		success(cmd, "root key wrapped and stored as %q", name)
		fmt.Fprintln(cmd.OutOrStdout(), env)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initSalt, "salt", "", "account salt (default: generate one)")
	initCmd.Flags().StringVar(&initRootKey, "root-key", "", "base58 root key to wrap")
	initCmd.Flags().BoolVar(&initForce, "force", false, "replace an existing record")
	_ = initCmd.MarkFlagRequired("root-key")
}
