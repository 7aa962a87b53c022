package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"specter/internal/models"
	"specter/internal/util"

	"github.com/charmbracelet/x/term"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"reports"},
	Short:   "Manage reports",
	Long:    "List, upload, download, replace and delete report files",
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		reports, err := client.ListReports(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing reports: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(reports) == 0 {
			fmt.Fprintln(out, "No reports found.")
			return nil
		}
		fmt.Fprintf(out, "%-8s %s\n", "ID", "SIZE")
		for _, r := range reports {
			fmt.Fprintf(out, "%-8d %s\n", r.ID, util.FormatSize(r.Size()))
		}
		return nil
	},
}

var reportUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a report file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		meta, err := sendReportFile(cmd, args[0], "Uploading", func(ctx context.Context, name string, r io.Reader) (*models.ReportMetadata, error) {
			return client.UploadReport(ctx, name, r)
		})
		if err != nil {
			return fmt.Errorf("error uploading report: %w", err)
		}

		if meta != nil && meta.ID != 0 {
			printSuccess(cmd.OutOrStdout(), "Report uploaded successfully (id %d)", meta.ID)
		} else {
			printSuccess(cmd.OutOrStdout(), "Report uploaded successfully")
		}
		return nil
	},
}

var reportUpdateCmd = &cobra.Command{
	Use:   "update <id> <file>",
	Short: "Replace the file of a report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}
		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		_, err = sendReportFile(cmd, args[1], "Updating", func(ctx context.Context, name string, r io.Reader) (*models.ReportMetadata, error) {
			return client.UpdateReport(ctx, id, name, r)
		})
		if err != nil {
			return fmt.Errorf("error updating report: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "Report updated successfully")
		return nil
	},
}

var reportDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download a report",
	Long:  "Download a report and save it as report_<id>.bin in the output directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("output")
		if dir == "" {
			dir = globalConfig.DownloadDir
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		bar := newSpinner(fmt.Sprintf("Downloading report %d", id))
		data, err := client.DownloadReport(cmd.Context(), id)
		finishBar(bar)
		if err != nil {
			return fmt.Errorf("error downloading report: %w", err)
		}

		path, err := util.WriteReportFile(dir, id, data)
		if err != nil {
			return err
		}

		printSuccess(cmd.OutOrStdout(), "Report downloaded to %s (%s)", path, util.FormatSize(int64(len(data))))
		return nil
	},
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}

		ok, err := confirmDelete(cmd, fmt.Sprintf("report %d", id))
		if err != nil || !ok {
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.DeleteReport(cmd.Context(), id); err != nil {
			return fmt.Errorf("error deleting report: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "Report deleted")
		return nil
	},
}

type reportSender func(ctx context.Context, name string, r io.Reader) (*models.ReportMetadata, error)

// sendReportFile streams a local file through send, showing progress on a terminal
func sendReportFile(cmd *cobra.Command, path, verb string, send reportSender) (*models.ReportMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	var r io.Reader = f
	bar := newByteBar(info.Size(), fmt.Sprintf("%s %s", verb, filepath.Base(path)))
	if bar != nil {
		reader := progressbar.NewReader(f, bar)
		r = &reader
	}

	meta, err := send(cmd.Context(), path, r)
	finishBar(bar)
	return meta, err
}

func progressEnabled() bool {
	return term.IsTerminal(os.Stderr.Fd())
}

// newByteBar returns nil when stderr is not a terminal
func newByteBar(size int64, description string) *progressbar.ProgressBar {
	if !progressEnabled() {
		return nil
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
}

// newSpinner shows indeterminate progress for calls with no known size
func newSpinner(description string) *progressbar.ProgressBar {
	if !progressEnabled() {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar == nil {
		return
	}
	if err := bar.Finish(); err != nil {
		logger.Debug("progress bar finish failed", "error", err)
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportUploadCmd)
	reportCmd.AddCommand(reportUpdateCmd)
	reportCmd.AddCommand(reportDownloadCmd)
	reportCmd.AddCommand(reportDeleteCmd)

	reportDownloadCmd.Flags().StringP("output", "o", "", "Directory to save the report in (default from config)")
	reportDeleteCmd.Flags().BoolP("force", "f", false, "Delete without asking for confirmation")
}
