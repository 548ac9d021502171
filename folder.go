package main

import (
	"errors"
	"fmt"
	"io"

	"ispeaker/backend/domain"
	"ispeaker/backend/repository/events"
	"ispeaker/backend/service/savefolder"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newFolderCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Inspect or relocate the save folder",
	}
	cmd.AddCommand(newFolderGetCmd(opts), newFolderSetCmd(opts), newFolderResetCmd(opts))
	return cmd
}

func newFolderGetCmd(opts *globalOptions) *cobra.Command {
	var withSize bool
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the effective save folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			path, err := a.facade.SaveFolder(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, path)

			custom, err := a.facade.CustomSaveFolder(ctx)
			if err != nil {
				return err
			}
			if custom != "" {
				fmt.Fprintf(out, "custom folder: %s\n", custom)
			}
			if withSize {
				size, err := savefolder.DirSize(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "size: %s\n", humanize.IBytes(uint64(size)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSize, "size", false, "also print the folder's total size")
	return cmd
}

func newFolderSetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <path>",
		Short: "Move the save folder into <path>/" + savefolder.DataSubfolder,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return relocate(cmd, opts, args[0])
		},
	}
}

func newFolderResetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Move the save folder back to the default location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return relocate(cmd, opts, "")
		},
	}
}

func relocate(cmd *cobra.Command, opts *globalOptions, path string) error {
	a, err := newApp(opts, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	progressID := a.bus.Subscribe(events.EventFolderMoveProgress, func(ev events.Event) {
		if e, ok := ev.(events.MoveProgressEvent); ok {
			printProgress(out, e.Progress)
		}
	})
	defer a.bus.Unsubscribe(progressID)
	venvID := a.bus.Subscribe(events.EventVenvDeleteStatus, func(ev events.Event) {
		if e, ok := ev.(events.VenvStatusEvent); ok {
			fmt.Fprintf(out, "venv %s: %s\n", e.Status.Status, e.Status.Path)
		}
	})
	defer a.bus.Unsubscribe(venvID)

	result := a.facade.SetCustomSaveFolder(cmd.Context(), path)
	if !result.Success {
		return fmt.Errorf("%s: %s", result.Error, result.Reason)
	}
	if err := a.snapshotter.Flush(); err != nil {
		return errors.Join(errors.New("save folder moved but settings were not saved"), err)
	}
	fmt.Fprintf(out, "save folder: %s\n", result.NewPath)
	return nil
}

func printProgress(w io.Writer, ev domain.ProgressEvent) {
	name := ""
	if ev.Name != nil {
		name = *ev.Name
	}
	if ev.Phase == domain.PhaseDeleteDone {
		fmt.Fprintf(w, "done: %d files\n", ev.Total)
		return
	}
	fmt.Fprintf(w, "%-10s %d/%d %s\n", ev.Phase, ev.Moved, ev.Total, name)
}

func newCheckPathCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-path <path>",
		Short: "Report whether <path> may be used as a save folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.close()

			if a.facade.IsDeniedPath(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "denied: %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "allowed: %s\n", args[0])
			}
			return nil
		},
	}
}
