package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <folder>",
	Short: "Add a folder of footage to the media library",
	Long: `Probe every media file below folder with ffprobe and add it to the
library. Subdirectories become library folders. Files already in the
library are left as they are.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		res, err := a.library.ImportFolder(ctx, args[0], 0)
		if err != nil {
			return err
		}

		var size int64
		for _, m := range res.Imported {
			size += m.Size
			fmt.Printf("  + %s (%s)\n", m.Name, humanize.Bytes(uint64(m.Size)))
		}
		for _, f := range res.Failed {
			fmt.Printf("  ! %s\n", f)
		}
		fmt.Printf("Imported %s files (%s) into %q, %d failed\n",
			humanize.Comma(int64(len(res.Imported))), humanize.Bytes(uint64(size)), res.Folder.Name, len(res.Failed))
		return nil
	},
}
