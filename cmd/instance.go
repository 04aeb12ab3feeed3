package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jwalton/gchalk"
	"github.com/lodestonemc/lodestone/internals/commands"
	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/spf13/cobra"
)

var instanceCmd = &cobra.Command{
	Use:     "instance",
	Aliases: []string{"instances", "i"},
	Short:   "Manage local instances",
}

func init() {
	create := commands.New(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a new instance",
		Args:  cobra.ExactArgs(1),
		Example: `  lodestone instance create "Fabric Adventures" --minecraft 1.19.2 --loader fabric@0.14.19
  lodestone instance create vanilla-snapshot --minecraft 23w13a`,
	}, &instanceCreateRunner{})
	create.Flags().String("minecraft", "", "target minecraft version (required)")
	create.Flags().String("loader", "", "mod loader as name@version (fabric, forge or quilt)")
	create.MarkFlagRequired("minecraft")

	list := commands.New(&cobra.Command{
		Use:   "list",
		Short: "List all instances",
		Args:  cobra.NoArgs,
	}, &instanceListRunner{})

	remove := commands.New(&cobra.Command{
		Use:   "remove <instance>",
		Short: "Delete an instance and everything it downloaded",
		Args:  cobra.ExactArgs(1),
	}, &instanceRemoveRunner{})
	remove.Flags().Bool("yes", false, "do not ask for confirmation")

	rename := commands.New(&cobra.Command{
		Use:   "rename <instance> <new name>",
		Short: "Change the display name of an instance",
		Args:  cobra.ExactArgs(2),
	}, &instanceRenameRunner{})

	instanceCmd.AddCommand(create, list, remove, rename)
	rootCmd.AddCommand(instanceCmd)
}

type instanceCreateRunner struct{}

func (r *instanceCreateRunner) RunE(cmd *cobra.Command, args []string) error {
	mc, _ := cmd.Flags().GetString("minecraft")

	loader := instances.ModLoader{}
	if raw, _ := cmd.Flags().GetString("loader"); raw != "" {
		name, version, ok := strings.Cut(raw, "@")
		if !ok {
			return &commands.CliError{
				Text: fmt.Sprintf("invalid loader %q", raw),
				Help: "the loader is specified as name@version, for example fabric@0.14.19",
			}
		}
		loader = instances.ModLoader{Name: name, Version: version}
	}

	instance, err := instances.New(instancesRoot(), args[0], mc, loader)
	if err != nil {
		return err
	}

	logger.Info("created " + instance.Desc())
	logger.Log(gchalk.Gray("  " + instance.Directory))
	logger.Info("next: lodestone launch " + instance.ID)
	return nil
}

type instanceListRunner struct{}

func (r *instanceListRunner) RunE(cmd *cobra.Command, args []string) error {
	all, err := instances.List(instancesRoot())
	if err != nil {
		return err
	}
	if len(all) == 0 {
		logger.Info("no instances yet. create one with `lodestone instance create`")
		return nil
	}

	for _, instance := range all {
		fmt.Println(instance.Desc())
	}
	return nil
}

type instanceRemoveRunner struct{}

func (r *instanceRemoveRunner) RunE(cmd *cobra.Command, args []string) error {
	instance, err := instances.Open(filepath.Join(instancesRoot(), args[0]))
	if err != nil {
		return err
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		fmt.Printf("really delete %s and all its data? [y/N] ", instance.ID)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			logger.Info("aborted")
			return nil
		}
	}

	if err := instance.Delete(); err != nil {
		return err
	}
	logger.Info("deleted " + instance.ID)
	return nil
}

type instanceRenameRunner struct{}

func (r *instanceRenameRunner) RunE(cmd *cobra.Command, args []string) error {
	instance, err := instances.Open(filepath.Join(instancesRoot(), args[0]))
	if err != nil {
		return err
	}
	if err := instance.Rename(args[1]); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("%s is now named %q", instance.ID, instance.Name))
	return nil
}
