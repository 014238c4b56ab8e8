package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pyglance/internal/watch"
)

// watchCmd keeps summarizing the given files as they change.
var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-summarize files whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSummarizer()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		files, err := s.Expand(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("nothing to watch")
		}

		// Initial pass before waiting for changes.
		if _, err := s.Run(ctx, args, os.Stdout); err != nil {
			return err
		}

		w, err := watch.New(files)
		if err != nil {
			return err
		}
		defer w.Stop()

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		w.Start(ctx, func(changed []string) {
			for _, file := range changed {
				logger.Info("file changed", "path", file)
				text, err := s.File(file)
				if err != nil {
					logger.Warn("skipping file", "path", file, "reason", err)
					continue
				}
				fmt.Println()
				fmt.Print(text)
			}
		})

		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
