package cmd

import (
	"fmt"

	"github.com/lodestonemc/lodestone/internals/commands"
	"github.com/lodestonemc/lodestone/internals/credentials"
	"github.com/spf13/cobra"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:   "account",
		Short: "Show or change the stored account",
		Long: `Without flags the stored account is printed. Tokens are provided by
an external authentication flow, lodestone only stores them. The
--offline flag stores a local-only account instead.`,
		Args: cobra.NoArgs,
	}, &accountRunner{})

	cmd.Flags().String("offline", "", "store an offline account with the given player name")
	cmd.Flags().Bool("forget", false, "remove the stored account")

	rootCmd.AddCommand(cmd)
}

type accountRunner struct{}

func (a *accountRunner) RunE(cmd *cobra.Command, args []string) error {
	store, err := credentialStore()
	if err != nil {
		return err
	}

	if forget, _ := cmd.Flags().GetBool("forget"); forget {
		if err := store.Clear(); err != nil {
			return err
		}
		logger.Info("account removed")
		return nil
	}

	if name, _ := cmd.Flags().GetString("offline"); name != "" {
		account := credentials.OfflineAccount(name)
		if err := store.Set(account); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("stored offline account %s (%s)", account.PlayerName, account.UUID))
		return nil
	}

	if store.Account == nil {
		return &commands.CliError{
			Text: "no account stored",
			Suggestions: []string{
				"store an offline account with `lodestone account --offline <name>`",
			},
		}
	}

	kind := "online"
	if store.Account.Offline() {
		kind = "offline"
	}
	logger.Info(fmt.Sprintf("%s (%s, %s)", store.Account.PlayerName, store.Account.UUID, kind))
	return nil
}
