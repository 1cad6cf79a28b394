package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockPrintKey bool

var unlockCmd = &cobra.Command{
	Use:   "unlock [name]",
	Short: "Check a passphrase against a stored envelope",
	Long: `Unlocks the stored envelope with a passphrase. With --print-key the
recovered root key is written to stdout in base58, the form the storage
process expects for its --key flag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := recordName(args)

		if err := unlockRecord(cmd, name); err != nil {
			return err
		}

		success(cmd, "unlocked %q", name)
		if unlockPrintKey {
			key, err := boundary.CurrentRootKeyEncoded()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

func init() {
	unlockCmd.Flags().BoolVar(&unlockPrintKey, "print-key", false, "print the base58 root key after unlocking")
}
