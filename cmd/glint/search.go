package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/glintlauncher/glint/internal/domain/result"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	topMatchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	subtitleStyle = lipgloss.NewStyle().Faint(true)
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(10)
	scoreStyle    = lipgloss.NewStyle().Faint(true)
)

var searchShowScores bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a single search and print ranked results",
	Example: `  # Search everything
  glint search terminal

  # Inline calculation
  glint search "2 + 2"

  # Web search shortcut
  glint search "g: rust tutorials"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchShowScores, "scores", false, "show final scores")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	query := result.NewQuery(strings.Join(args, " "))
	candidates, err := a.engine.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for _, c := range candidates {
		printCandidate(c)
	}
	return nil
}

func printCandidate(c result.Candidate) {
	title := titleStyle.Render(c.Title)
	if c.TopMatch {
		title = topMatchStyle.Render(c.Title)
	}

	line := fmt.Sprintf("%s %s", kindStyle.Render(string(c.Kind)), title)
	if searchShowScores {
		line += " " + scoreStyle.Render(fmt.Sprintf("(%.3f)", c.Score))
	}
	fmt.Println(line)

	if c.Subtitle != "" {
		fmt.Println(kindStyle.Render("") + " " + subtitleStyle.Render(c.Subtitle))
	}
}
