package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dmx-editor/controller"
	"dmx-editor/logging"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the presets stored on the controller",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client := ctx.controllerClient(cfg)
			out := cmd.OutOrStdout()

			snap, err := client.FetchPresets(cmd.Context())
			status := controller.LoadStatus(len(snap.Presets), err)
			fmt.Fprintln(out, colorStatus(status, err == nil, logging.IsTerminal(out)))
			if err != nil {
				return fmt.Errorf("fetch presets from %s: %w", client.BaseURL(), err)
			}

			rows := make([][]string, 0, len(snap.Presets))
			for i, p := range snap.Presets {
				active := "yes"
				if i >= snap.Count {
					active = "no"
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					p.Name,
					strconv.Itoa(p.Values1.ActiveChannels()),
					strconv.Itoa(p.Values2.ActiveChannels()),
					active,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Name", "Universe 1", "Universe 2", "Active"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "Active presets: %d\n", snap.Count)
			return nil
		},
	}
}

func colorStatus(status string, ok, colorize bool) string {
	if !colorize {
		return status
	}
	if ok {
		return ansiGreen + status + ansiReset
	}
	return ansiRed + status + ansiReset
}
