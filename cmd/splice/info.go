package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/splicekit/splice/internal/export"
	"github.com/splicekit/splice/internal/timeline"
)

var infoCmd = &cobra.Command{
	Use:   "info [sequence]",
	Short: "Show the library or one sequence",
	Long: `Without arguments, list the stored sequences and library totals.
With a sequence id or name, show its tracks, clips and markers.`,
	Args: cobra.MaximumNArgs(1),
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
		if len(args) == 0 {
			return printLibrary(ctx, a)
		}
		return printSequence(ctx, a, args[0])
	},
}

func printLibrary(ctx context.Context, a *app) error {
	stats, err := a.repo.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Library: %s footage files (%s), %s sequences, %s clips\n",
		humanize.Comma(int64(stats.Footage)), humanize.Bytes(uint64(stats.MediaSize)),
		humanize.Comma(int64(stats.Sequences)), humanize.Comma(int64(stats.Clips)))

	seqs, err := a.repo.ListSequences(ctx)
	if err != nil {
		return err
	}
	if len(seqs) == 0 {
		return nil
	}
	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFORMAT\tCLIPS\tLENGTH\tUPDATED")
	for _, s := range seqs {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d @ %g\t%s\t%s\t%s\n",
			s.ID, s.Name, s.Width, s.Height, s.FrameRate,
			humanize.Comma(int64(s.ClipCount)), timecode(s.EndFrame, s.FrameRate),
			humanize.Time(s.UpdatedAt))
	}
	return tw.Flush()
}

func printSequence(ctx context.Context, a *app, ref string) error {
	info, err := a.findSequence(ctx, ref)
	if err != nil {
		return err
	}
	s, err := a.manager.Open(ctx, info.ID)
	if err != nil {
		return err
	}
	seq := s.Sequence

	fmt.Printf("%s (%s)\n", seq.Name, seq.ID)
	fmt.Printf("  %dx%d @ %g fps, %s Hz audio\n", seq.Width, seq.Height, seq.FrameRate, humanize.Comma(int64(seq.AudioFrequency)))
	fmt.Printf("  %s clips, length %s, updated %s\n",
		humanize.Comma(int64(seq.Len())), timecode(seq.EndFrame(), seq.FrameRate), humanize.Time(info.UpdatedAt))
	if seq.Workarea.Using {
		fmt.Printf("  work area %s - %s\n", timecode(seq.Workarea.In, seq.FrameRate), timecode(seq.Workarea.Out, seq.FrameRate))
	}

	tracks := make(map[int][]*timeline.Clip)
	var order []int
	for _, c := range seq.Clips() {
		if _, ok := tracks[c.Track]; !ok {
			order = append(order, c.Track)
		}
		tracks[c.Track] = append(tracks[c.Track], c)
	}
	sort.Ints(order)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, track := range order {
		state := ""
		if seq.IsTrackLocked(track) {
			state += " locked"
		}
		if !seq.IsTrackEnabled(track) {
			state += " muted"
		}
		fmt.Fprintf(tw, "\n%s%s\n", timeline.TrackName(track), state)
		for _, c := range tracks[track] {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", c.ID, c.Name,
				timecode(c.In, seq.FrameRate), timecode(c.Out, seq.FrameRate), clipNotes(c))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(seq.Markers) > 0 {
		fmt.Println("\nMarkers")
		for i, m := range seq.Markers {
			fmt.Printf("  %d  %s  %s\n", i, timecode(m.Frame, seq.FrameRate), m.Name)
		}
	}
	return a.manager.Close(ctx, seq.ID, false)
}

func clipNotes(c *timeline.Clip) string {
	var notes string
	if !c.Enabled {
		notes += "disabled "
	}
	if c.Media == nil {
		notes += "offline "
	}
	if len(c.Links) > 0 {
		notes += fmt.Sprintf("linked:%d ", len(c.Links))
	}
	if c.Opening != nil {
		notes += "in:" + c.Opening.EffectID + " "
	}
	if c.Closing != nil {
		notes += "out:" + c.Closing.EffectID + " "
	}
	if len(c.Effects) > 0 {
		notes += fmt.Sprintf("fx:%d", len(c.Effects))
	}
	return notes
}

func timecode(frame int64, rate float64) string {
	fps := int64(rate + 0.5)
	if fps <= 0 {
		return fmt.Sprint(frame)
	}
	return export.Timecode(frame, fps, export.IsDropFrame(rate))
}
