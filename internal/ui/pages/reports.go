package pages

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"specter/internal/models"
	"specter/internal/ui/components"
	"specter/internal/ui/dialog"
	"specter/internal/util"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ReportsAPI is the slice of the backend the reports page calls
type ReportsAPI interface {
	ListReports(ctx context.Context) ([]models.Report, error)
	UploadReport(ctx context.Context, name string, r io.Reader) (*models.ReportMetadata, error)
	UpdateReport(ctx context.Context, reportID int64, name string, r io.Reader) (*models.ReportMetadata, error)
	DownloadReport(ctx context.Context, reportID int64) ([]byte, error)
	DeleteReport(ctx context.Context, reportID int64) error
}

type reportOp string

const (
	opUploadReport   reportOp = "upload"
	opUpdateReport   reportOp = "update"
	opDeleteReport   reportOp = "delete"
	opDownloadReport reportOp = "download"
)

var reportOpText = map[reportOp][2]string{
	opUploadReport:   {"Report uploaded successfully", "Failed to upload report"},
	opUpdateReport:   {"Report updated successfully", "Failed to update report"},
	opDeleteReport:   {"Report deleted successfully", "Failed to delete report"},
	opDownloadReport: {"Report downloaded successfully", "Failed to download report"},
}

type reportsLoadedMsg struct {
	seq     int
	reports []models.Report
	err     error
}

type reportSavedMsg struct {
	op   reportOp
	path string
	err  error
}

// Reports lists binary reports and moves them to and from disk
type Reports struct {
	base

	api         ReportsAPI
	list        components.EntityListModel[models.Report]
	reports     []models.Report
	dialog      dialog.State[models.Report]
	picker      filepicker.Model
	downloadDir string
	startDir    string
}

// NewReports creates the reports page
func NewReports(client ReportsAPI, opts Options) *Reports {
	downloadDir := opts.DownloadDir
	if downloadDir == "" {
		downloadDir = "."
	}
	startDir := opts.StartDir
	if startDir == "" {
		startDir = "."
	}

	return &Reports{
		base:        newBase(opts),
		api:         client,
		list:        components.NewEntityListModel("Reports", describeReport),
		picker:      newReportPicker(startDir, 10),
		downloadDir: downloadDir,
		startDir:    startDir,
	}
}

func newReportPicker(dir string, height int) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = nil
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = height
	fp.CurrentDirectory = dir
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "up"),
	)

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(components.ColorAccent)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(components.ColorAccent).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(components.ColorPrimary)
	fp.Styles.DisabledFile = components.MutedStyle()
	fp.Styles.FileSize = components.MutedStyle().Width(fp.Styles.FileSize.GetWidth()).Align(lipgloss.Right)
	return fp
}

func describeReport(r models.Report) (string, string) {
	return fmt.Sprintf("Report #%d", r.ID), util.FormatSize(r.Size())
}

func (r *Reports) Title() string { return "Reports" }

// Reports returns the last fetched list
func (r *Reports) Reports() []models.Report { return r.reports }

// Dialog returns the current dialog state
func (r *Reports) Dialog() dialog.State[models.Report] { return r.dialog }

// Enter fetches the report list
func (r *Reports) Enter() tea.Cmd {
	return tea.Batch(r.spinner.Tick, r.fetch())
}

func (r *Reports) CapturingInput() bool {
	return r.dialog.Open() || r.list.Filtering()
}

func (r *Reports) SelectedID() (string, bool) {
	if report, ok := r.list.Selected(); ok {
		return strconv.FormatInt(report.ID, 10), true
	}
	return "", false
}

func (r *Reports) SetSize(width, height int) {
	r.base.SetSize(width, height)
	r.list.SetSize(width, r.bodyHeight())
	r.picker.Height = max(3, r.bodyHeight()-8)
}

func (r *Reports) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "upload")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "replace")),
		Keys.Download, Keys.Delete, Keys.Refresh,
	}
}

func (r *Reports) fetch() tea.Cmd {
	r.fetchSeq++
	seq := r.fetchSeq
	r.loading = true

	client := r.api
	return func() tea.Msg {
		reports, err := client.ListReports(context.Background())
		return reportsLoadedMsg{seq: seq, reports: reports, err: err}
	}
}

// Update handles page messages
func (r *Reports) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return r.updateSpinner(msg)

	case reportsLoadedMsg:
		if msg.seq != r.fetchSeq {
			return nil
		}
		r.loading = false
		if msg.err != nil {
			r.fail("list reports", "Failed to load reports", msg.err)
			return nil
		}
		r.reports = msg.reports
		r.list.SetItems(msg.reports)
		return nil

	case reportSavedMsg:
		r.submitting = false
		text := reportOpText[msg.op]
		if msg.err != nil {
			r.fail(string(msg.op)+" report", text[1], msg.err)
			return nil
		}
		r.closeDialog()
		if msg.op == opDownloadReport {
			r.succeed(fmt.Sprintf("%s (%s)", text[0], msg.path))
			return nil
		}
		r.succeed(text[0])
		return r.fetch()

	case tea.KeyMsg:
		if r.dialog.Open() {
			return r.handleDialogKey(msg)
		}
		return r.handleListKey(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	r.list, cmd = r.list.Update(msg)
	cmds = append(cmds, cmd)
	if r.pickerOpen() {
		r.picker, cmd = r.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (r *Reports) pickerOpen() bool {
	return r.dialog.Is(dialog.Creating) || r.dialog.Is(dialog.Editing)
}

func (r *Reports) handleListKey(msg tea.KeyMsg) tea.Cmd {
	if r.list.Filtering() {
		var cmd tea.Cmd
		r.list, cmd = r.list.Update(msg)
		return cmd
	}
	if r.dismiss(msg) {
		return nil
	}

	switch {
	case key.Matches(msg, Keys.New):
		r.dialog = dialog.Create[models.Report]()
		return r.openPicker()
	case key.Matches(msg, Keys.Refresh):
		return r.fetch()
	}

	selected, ok := r.list.Selected()
	if ok {
		switch {
		case key.Matches(msg, Keys.Edit):
			r.dialog = dialog.Edit(selected)
			return r.openPicker()
		case key.Matches(msg, Keys.Delete):
			r.dialog = dialog.Delete(selected)
			return nil
		case key.Matches(msg, Keys.Download):
			return r.download(selected)
		}
	}

	var cmd tea.Cmd
	r.list, cmd = r.list.Update(msg)
	return cmd
}

func (r *Reports) openPicker() tea.Cmd {
	height := r.picker.Height
	r.picker = newReportPicker(r.startDir, height)
	return r.picker.Init()
}

func (r *Reports) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch r.dialog.Kind() {
	case dialog.Creating, dialog.Editing:
		if key.Matches(msg, escOnly) {
			r.closeDialog()
			return nil
		}
		var cmd tea.Cmd
		r.picker, cmd = r.picker.Update(msg)
		if selected, path := r.picker.DidSelectFile(msg); selected {
			return tea.Batch(cmd, r.submitFile(path))
		}
		return cmd

	case dialog.Deleting:
		switch {
		case key.Matches(msg, Keys.Confirm):
			return r.submitDelete()
		case key.Matches(msg, Keys.Cancel):
			r.closeDialog()
		}
	}
	return nil
}

func (r *Reports) closeDialog() {
	r.dialog = dialog.Close[models.Report]()
}

// submitFile uploads path as a new report, or as the new data of the
// report being edited
func (r *Reports) submitFile(path string) tea.Cmd {
	if r.submitting || path == "" {
		return nil
	}

	client := r.api
	r.submitting = true
	r.banner = components.Banner{}
	r.startDir = filepath.Dir(path)

	target, editing := r.dialog.Target()
	editing = editing && r.dialog.Is(dialog.Editing)

	return func() tea.Msg {
		op := opUploadReport
		if editing {
			op = opUpdateReport
		}

		f, err := os.Open(path)
		if err != nil {
			return reportSavedMsg{op: op, err: err}
		}
		defer f.Close()

		if editing {
			_, err = client.UpdateReport(context.Background(), target.ID, path, f)
		} else {
			_, err = client.UploadReport(context.Background(), path, f)
		}
		return reportSavedMsg{op: op, err: err}
	}
}

func (r *Reports) submitDelete() tea.Cmd {
	target, ok := r.dialog.Target()
	if !ok || r.submitting {
		return nil
	}

	client := r.api
	r.submitting = true
	r.banner = components.Banner{}
	return func() tea.Msg {
		err := client.DeleteReport(context.Background(), target.ID)
		return reportSavedMsg{op: opDeleteReport, err: err}
	}
}

// download writes the report to report_<id>.bin in the download directory
func (r *Reports) download(report models.Report) tea.Cmd {
	if r.submitting {
		return nil
	}

	client := r.api
	dir := r.downloadDir
	r.submitting = true
	r.banner = components.Banner{}
	return func() tea.Msg {
		data, err := client.DownloadReport(context.Background(), report.ID)
		if err != nil {
			return reportSavedMsg{op: opDownloadReport, err: err}
		}
		path, err := util.WriteReportFile(dir, report.ID, data)
		return reportSavedMsg{op: opDownloadReport, path: path, err: err}
	}
}

// View renders the page
func (r *Reports) View() string {
	var body string
	switch {
	case r.dialog.Open():
		body = r.overlay(r.dialogView())
	case r.loading && len(r.reports) == 0:
		body = r.loadingView("reports")
	case len(r.reports) == 0:
		body = components.MutedStyle().PaddingLeft(1).Render("No reports yet. Press n to upload one.")
	default:
		body = r.list.View()
	}
	return r.frame("Reports", body)
}

func (r *Reports) dialogView() string {
	target, _ := r.dialog.Target()
	help := "enter: choose file   h: up a directory   esc: cancel"
	if r.submitting {
		help = r.spinner.View() + " Uploading..."
	}

	switch r.dialog.Kind() {
	case dialog.Creating:
		return components.RenderModal(r.width, "Upload New Report", r.pickerView(), help)
	case dialog.Editing:
		return components.RenderModal(r.width, fmt.Sprintf("Update Report #%d", target.ID), r.pickerView(), help)
	case dialog.Deleting:
		body := fmt.Sprintf("Are you sure you want to delete report #%d? This action cannot be undone.", target.ID)
		return components.RenderConfirm(r.width, "Delete Report", body)
	}
	return ""
}

func (r *Reports) pickerView() string {
	return components.MutedStyle().Render(r.picker.CurrentDirectory) + "\n\n" + r.picker.View()
}
