package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

func resultsAction(ctx context.Context, cmd *cli.Command) error {
	p := tea.NewProgram(NewModel(cmd.String("results")), tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "results",
		Usage: "Browse backtest result folders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "results",
				Aliases: []string{"r"},
				Usage:   "Results folder written by the backtest command",
				Value:   "results",
			},
		},
		Action: resultsAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
