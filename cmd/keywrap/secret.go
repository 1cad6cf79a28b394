package main

import (
	"fmt"

	"github.com/ai8future/keywrap/internal/store"
	"github.com/spf13/cobra"
)

var (
	secretSalt string
	secretSave string
	secretName string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <plaintext>",
	Short: "Encrypt a short secret under a passphrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if secretSalt == "" {
			return fmt.Errorf("--salt is required")
		}

		passphrase, err := readPassphrase(cmd, "Passphrase: ")
		if err != nil {
			return err
		}

		stop := startSpinner("Encrypting...")
		env, err := boundary.EncryptBySecret(cmd.Context(), string(passphrase), secretSalt, args[0])
		stop()
		if err != nil {
			return userError(err)
		}

		if secretSave != "" {
			if err := envelopes.Put(secretSave, store.Record{Salt: secretSalt, Envelope: env}); err != nil {
				return Logger.ErrorfAndReturn("failed to save envelope: %v", err)
			}
			success(cmd, "secret stored as %q", secretSave)
		}
		fmt.Fprintln(cmd.OutOrStdout(), env)
		return nil
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [envelope]",
	Short: "Decrypt a short secret with a passphrase",
	Long: `Decrypts an envelope given on the command line with --salt, or a stored
record with --name (its salt is read from the store).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		salt, env := secretSalt, ""
		switch {
		case secretName != "":
			rec, err := envelopes.Get(secretName)
			if err != nil {
				return err
			}
			salt, env = rec.Salt, rec.Envelope
		case len(args) == 1 && secretSalt != "":
			env = args[0]
		default:
			return fmt.Errorf("give an envelope with --salt, or --name")
		}

		passphrase, err := readPassphrase(cmd, "Passphrase: ")
		if err != nil {
			return err
		}

		stop := startSpinner("Decrypting...")
		plaintext, err := boundary.DecryptBySecret(cmd.Context(), string(passphrase), salt, env)
		stop()
		if err != nil {
			return userError(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), plaintext)
		return nil
	},
}

var saltCmd = &cobra.Command{
	Use:   "salt",
	Short: "Print a new random salt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		salt, err := generateSalt()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), salt)
		return nil
	},
}

func init() {
	encryptCmd.Flags().StringVar(&secretSalt, "salt", "", "salt for the passphrase")
	encryptCmd.Flags().StringVar(&secretSave, "save", "", "also store the envelope under this name")
	decryptCmd.Flags().StringVar(&secretSalt, "salt", "", "salt for the passphrase")
	decryptCmd.Flags().StringVar(&secretName, "name", "", "decrypt the stored record with this name")
}
