package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/glintlauncher/glint/internal/domain/capability"
	"github.com/glintlauncher/glint/internal/domain/plugin"
)

var statusStyles = map[plugin.Status]lipgloss.Style{
	plugin.StatusEnabled:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	plugin.StatusDisabled: lipgloss.NewStyle().Faint(true),
	plugin.StatusCrashed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	plugin.StatusLoaded:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Manage plugins",
}

var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered plugins and their status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		plugins := a.registry.List()
		if len(plugins) == 0 {
			fmt.Println("No plugins installed.")
			return nil
		}

		for _, p := range plugins {
			status := statusStyles[p.Status].Render(string(p.Status))
			fmt.Printf("%-30s %-10s %s\n", p.String(), status, p.Manifest.Description)
			if len(p.Manifest.Triggers) > 0 {
				fmt.Printf("  triggers: %s\n", strings.Join(p.Manifest.Triggers, ", "))
			}
			if perms := p.Manifest.Permissions; len(perms) > 0 {
				fmt.Printf("  permissions: %s (granted: %s)\n",
					strings.Join(perms, ", "), strings.Join(p.Granted.Strings(), ", "))
			}
		}
		return nil
	},
}

var pluginsEnableCmd = &cobra.Command{
	Use:   "enable <plugin-id>",
	Short: "Enable a plugin (lifts a crash quarantine)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.registry.Enable(args[0]); err != nil {
			return err
		}
		fmt.Printf("Enabled %s\n", args[0])
		return nil
	},
}

var pluginsDisableCmd = &cobra.Command{
	Use:   "disable <plugin-id>",
	Short: "Disable a plugin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.registry.Disable(args[0]); err != nil {
			return err
		}
		fmt.Printf("Disabled %s\n", args[0])
		return nil
	},
}

var pluginsGrantCmd = &cobra.Command{
	Use:   "grant <plugin-id> <permission>",
	Short: "Grant a declared permission to a plugin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		c, err := capability.Parse(args[1])
		if err != nil {
			return err
		}
		if err := a.registry.Grant(args[0], c); err != nil {
			return err
		}
		if c.IsDangerous() {
			fmt.Printf("Granted %s to %s (%s)\n", c, args[0],
				statusStyles[plugin.StatusCrashed].Render("elevated risk"))
			return nil
		}
		fmt.Printf("Granted %s to %s\n", c, args[0])
		return nil
	},
}

var pluginsRevokeCmd = &cobra.Command{
	Use:   "revoke <plugin-id> <permission>",
	Short: "Revoke a permission from a plugin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		c, err := capability.Parse(args[1])
		if err != nil {
			return err
		}
		if err := a.registry.Revoke(args[0], c); err != nil {
			return err
		}
		fmt.Printf("Revoked %s from %s\n", c, args[0])
		return nil
	},
}

func init() {
	pluginsCmd.AddCommand(pluginsListCmd)
	pluginsCmd.AddCommand(pluginsEnableCmd)
	pluginsCmd.AddCommand(pluginsDisableCmd)
	pluginsCmd.AddCommand(pluginsGrantCmd)
	pluginsCmd.AddCommand(pluginsRevokeCmd)
	rootCmd.AddCommand(pluginsCmd)
}
