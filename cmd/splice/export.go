package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/splicekit/splice/internal/export"
)

var exportEDLCmd = &cobra.Command{
	Use:   "export-edl <sequence>",
	Short: "Write a sequence out as a CMX3600 EDL",
	Long: `Write the first video track of a sequence as a CMX3600 edit decision
list. The sequence is given by id or name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		name, _ := cmd.Flags().GetString("name")

		if out == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			out = wd
		}
		out, err := filepath.Abs(out)
		if err != nil {
			return err
		}
		if err := export.ValidateOutputDir(out); err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		info, err := a.findSequence(ctx, args[0])
		if err != nil {
			return err
		}
		s, err := a.manager.Open(ctx, info.ID)
		if err != nil {
			return err
		}
		defer a.manager.Close(ctx, info.ID, false)

		path, resp, err := export.WriteFile(s.Sequence, out, name)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d events to %s\n", resp.EventCount, path)
		for _, skipped := range resp.Skipped {
			fmt.Printf("  skipped %s (no source file)\n", skipped)
		}
		return nil
	},
}

func init() {
	exportEDLCmd.Flags().StringP("output", "o", "", "output directory (default current directory)")
	exportEDLCmd.Flags().StringP("name", "n", "", "EDL title and file name (default sequence name)")
}
