package main

import (
	"fmt"

	"github.com/ai8future/keywrap/internal/store"
	"github.com/spf13/cobra"
)

var (
	passwdNewSalt    string
	passwdRegenerate bool
)

var passwdCmd = &cobra.Command{
	Use:   "passwd [name]",
	Short: "Change the passphrase protecting a stored root key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := recordName(args)

		rec, err := envelopes.Get(name)
		if err != nil {
			return err
		}

		newSalt := rec.Salt
		switch {
		case passwdNewSalt != "":
			newSalt = passwdNewSalt
		case passwdRegenerate:
			if newSalt, err = generateSalt(); err != nil {
				return err
			}
		}

		oldPassphrase, err := readPassphrase(cmd, "Current passphrase: ")
		if err != nil {
			return err
		}
		newPassphrase, err := readNewPassphrase(cmd, "New passphrase: ")
		if err != nil {
			return err
		}

		stop := startSpinner("Re-wrapping root key...")
		env, err := boundary.ChangeSecret(cmd.Context(), string(oldPassphrase), rec.Salt, rec.Envelope, string(newPassphrase), newSalt)
		stop()
		if err != nil {
			return userError(err)
		}

		if err := envelopes.Put(name, store.Record{Salt: newSalt, Envelope: env}); err != nil {
			return Logger.ErrorfAndReturn("failed to save envelope: %v", err)
		}

		success(cmd, "passphrase changed for %q", name)
		fmt.Fprintln(cmd.OutOrStdout(), env)
		return nil
	},
}

func init() {
	passwdCmd.Flags().StringVar(&passwdNewSalt, "new-salt", "", "salt for the new passphrase (default: keep the current salt)")
	passwdCmd.Flags().BoolVar(&passwdRegenerate, "regenerate-salt", false, "generate a new random salt")
	passwdCmd.MarkFlagsMutuallyExclusive("new-salt", "regenerate-salt")
}
