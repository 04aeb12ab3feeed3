package cmd

import (
	"fmt"
	"os"

	"github.com/lodestonemc/lodestone/internals/bootstrap"
	"github.com/lodestonemc/lodestone/internals/commands"
	"github.com/lodestonemc/lodestone/internals/java"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:   "bootstrap [instance]",
		Short: "Download everything an instance needs, without launching",
		Long: `Bootstrap prepares an instance directory: version descriptors,
the client jar, libraries, assets, natives and (if configured) the mod
loader. Re-running it only verifies what is already there.`,
		Args: cobra.MaximumNArgs(1),
	}, &bootstrapRunner{})

	cmd.Flags().Bool("no-java", false, "skip the managed java runtime")

	rootCmd.AddCommand(cmd)
}

type bootstrapRunner struct{}

func (b *bootstrapRunner) RunE(cmd *cobra.Command, args []string) error {
	instance, err := openInstance(args)
	if err != nil {
		return err
	}

	logger.Headline("Bootstrapping " + instance.Desc())

	spin := newMaybeSpinner(isatty.IsTerminal(os.Stdout.Fd()))
	bs := bootstrap.New()
	bs.Tasks = &cliTasks{spin: spin}
	if noJava, _ := cmd.Flags().GetBool("no-java"); !noJava {
		bs.Java = java.NewFactory(viper.GetString("javaDir"))
	}

	result, err := bs.Bootstrap(cmd.Context(), instance)
	spin.Stop()
	if err != nil {
		return bootstrapCliError(err)
	}

	logger.Info(fmt.Sprintf("%s is ready to launch (version %s)", instance.ID, result.Descriptor.ID))
	if result.JavaPath != "" {
		logger.Info("java: " + result.JavaPath)
	}
	return nil
}
