package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var repoKeyRecord string

// unlockRecord unlocks the session from the named store record.
func unlockRecord(cmd *cobra.Command, name string) error {
	rec, err := envelopes.Get(name)
	if err != nil {
		return err
	}

	passphrase, err := readPassphrase(cmd, "Passphrase: ")
	if err != nil {
		return err
	}

	stop := startSpinner("Unlocking...")
	ok, err := boundary.CheckSetSecret(cmd.Context(), string(passphrase), rec.Salt, rec.Envelope)
	stop()
	if err != nil {
		return userError(err)
	}
	if !ok {
		return errors.New("incorrect passphrase")
	}
	return nil
}

var wrapKeyCmd = &cobra.Command{
	Use:   "wrap-key <repo-key>",
	Short: "Wrap a base58 repository key under the root key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unlockRecord(cmd, repoKeyRecord); err != nil {
			return err
		}

		env, err := boundary.EncryptRepoKey(cmd.Context(), args[0])
		if err != nil {
			return userError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), env)
		return nil
	},
}

var unwrapKeyCmd = &cobra.Command{
	Use:   "unwrap-key <envelope>",
	Short: "Recover a repository key wrapped with wrap-key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unlockRecord(cmd, repoKeyRecord); err != nil {
			return err
		}

		key, err := boundary.DecryptRepoKey(cmd.Context(), args[0])
		if err != nil {
			return userError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

func init() {
	wrapKeyCmd.Flags().StringVar(&repoKeyRecord, "record", defaultRecord, "store record holding the root key")
	unwrapKeyCmd.Flags().StringVar(&repoKeyRecord, "record", defaultRecord, "store record holding the root key")
}
