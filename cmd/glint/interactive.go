package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glintlauncher/glint/internal/domain/plugin"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/domain/search"
	"github.com/glintlauncher/glint/internal/ports"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"repl"},
	Short:   "Read queries from stdin and print ranked results as they settle",
	Long: `Reads one query per line from stdin. Each line restarts the debounce
quiet period, so a burst of lines only dispatches the last one; the plugin
directories are watched and reloaded while the session runs.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().BoolVar(&searchShowScores, "scores", false, "show final scores")
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	watcher := plugin.NewWatcher(a.host, a.logger)
	go func() {
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Warn(ctx, "plugin watcher stopped", ports.F("error", err.Error()))
		}
	}()

	controller := search.NewController(a.engine.Search, printResults, a.cfg.Debounce())
	defer controller.Close()

	fmt.Println("Type a query and press Enter; Ctrl-D exits.")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		controller.Keystroke(scanner.Text())
	}
	controller.Flush()
	return scanner.Err()
}

func printResults(query result.Query, candidates []result.Candidate) {
	if query.IsEmpty() {
		return
	}
	fmt.Printf("\n%s\n", titleStyle.Render("» "+query.Text))
	if len(candidates) == 0 {
		fmt.Println("No results.")
		return
	}
	for _, c := range candidates {
		printCandidate(c)
	}
}
