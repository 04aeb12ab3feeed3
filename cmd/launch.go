package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jwalton/gchalk"
	"github.com/lodestonemc/lodestone/internals/bootstrap"
	"github.com/lodestonemc/lodestone/internals/commands"
	"github.com/lodestonemc/lodestone/internals/credentials"
	"github.com/lodestonemc/lodestone/internals/java"
	"github.com/lodestonemc/lodestone/internals/launcher"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cmd := commands.New(&cobra.Command{
		Use:   "launch [instance]",
		Short: "Bootstrap & launch an instance",
		Args:  cobra.MaximumNArgs(1),
	}, &launchRunner{})

	cmd.Flags().String("offline", "", "launch offline with the given player name")
	cmd.Flags().Int("ram", 0, "maximum memory in MiB (0 picks a default)")
	cmd.Flags().String("java", "", "path to a java binary (skips the managed runtime)")
	cmd.Flags().Bool("demo", false, "launch in demo mode")
	cmd.Flags().Bool("dry-run", false, "print the launch command instead of starting it")
	cmd.Flags().IntSlice("resolution", nil, "initial window size as width,height")

	rootCmd.AddCommand(cmd)
}

type launchRunner struct{}

func (l *launchRunner) RunE(cmd *cobra.Command, args []string) error {
	instance, err := openInstance(args)
	if err != nil {
		return err
	}

	fmt.Println(gchalk.WithBgWhite().Black(" " + instance.Name + " "))
	pipe("Directory: " + instance.Directory)
	pipe(instance.Desc())
	pipe("")

	account, clientID, err := resolveAccount(cmd)
	if err != nil {
		return err
	}
	if account.Offline() {
		pipe(gchalk.Yellow("offline mode"), "playing as", account.PlayerName)
	} else {
		pipe("playing as", account.PlayerName)
	}

	ctx := cmd.Context()

	spin := newMaybeSpinner(isatty.IsTerminal(os.Stdout.Fd()))
	b := bootstrap.New()
	b.Java = java.NewFactory(viper.GetString("javaDir"))
	b.Tasks = &cliTasks{spin: spin}

	result, err := b.Bootstrap(ctx, instance)
	spin.Stop()
	if err != nil {
		return bootstrapCliError(err)
	}

	javaPath, _ := cmd.Flags().GetString("java")
	if javaPath == "" {
		javaPath = result.JavaPath
	}

	memory, _ := cmd.Flags().GetInt("ram")
	if memory == 0 {
		memory = viper.GetInt("ramMiB")
	}

	opts := &launcher.Options{
		Instance:   instance,
		Descriptor: result.Descriptor,
		Credentials: &launcher.Credentials{
			PlayerName:  account.PlayerName,
			UUID:        account.UUID,
			AccessToken: account.AccessToken,
			UserType:    account.UserType,
			XUID:        account.XUID,
			ClientID:    clientID,
		},
		MemoryMiB:       memory,
		Java:            javaPath,
		LauncherName:    "lodestone",
		LauncherVersion: Version,
	}

	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		opts.Demo = true
	}
	if res, _ := cmd.Flags().GetIntSlice("resolution"); len(res) == 2 {
		opts.Resolution = &launcher.Resolution{Width: res[0], Height: res[1]}
	}

	spec, err := launcher.Build(opts)
	if err != nil {
		return err
	}

	if len(spec.JVMArgs) >= 2 {
		// the -Xmx flag is the source of truth after Build applied defaults
		pipe("Memory:", humanize.IBytes(memoryBytes(spec.JVMArgs)))
	}
	pipe("Java:", spec.Java)
	pipe("Main class:", spec.MainClass)

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		fmt.Println("└ would run:")
		fmt.Println(spec.Java, spec.Args())
		return nil
	}

	fmt.Println("└ " + commands.Emoji("⛏  ") + "Launching Minecraft")

	if err := spec.Run(ctx, &launcher.RunOptions{Stdout: os.Stdout, Stderr: os.Stderr}); err != nil {
		return &commands.CliError{
			Text: "minecraft exited with an error",
			Help: err.Error(),
			Suggestions: []string{
				"look for crash reports in " + instance.McDir(),
				"re-run the bootstrap with `lodestone bootstrap " + instance.ID + "`",
			},
		}
	}

	fmt.Println("\nMinecraft was stopped normally")
	return nil
}

// resolveAccount picks the stored account or builds an offline one.
// The per-install client id always comes from the store, even for
// offline accounts
func resolveAccount(cmd *cobra.Command) (*credentials.Account, string, error) {
	store, err := credentialStore()
	if err != nil {
		return nil, "", err
	}

	if name, _ := cmd.Flags().GetString("offline"); name != "" {
		return credentials.OfflineAccount(name), store.ClientID, nil
	}
	if store.Account != nil {
		return store.Account, store.ClientID, nil
	}

	// nothing stored, fall back to an offline default
	return credentials.OfflineAccount("Player"), store.ClientID, nil
}

// memoryBytes extracts the -Xmx flag value in bytes for display
func memoryBytes(jvmArgs []string) uint64 {
	for _, arg := range jvmArgs {
		var mib uint64
		if _, err := fmt.Sscanf(arg, "-Xmx%dM", &mib); err == nil {
			return mib * 1024 * 1024
		}
	}
	return 0
}

// bootstrapCliError turns a stage error into an actionable cli error
func bootstrapCliError(err error) error {
	var stageErr *bootstrap.StageError
	if !errors.As(err, &stageErr) {
		return err
	}

	cliErr := &commands.CliError{
		Text: fmt.Sprintf("bootstrap failed while %s", stageErr.Stage),
		Help: stageErr.Err.Error(),
	}
	if stageErr.Hint != "" {
		cliErr.Suggestions = []string{stageErr.Hint}
	}
	return cliErr
}
