package pages

import (
	"context"
	"io"
	"net/http"
	"testing"

	"specter/internal/api"
	"specter/internal/models"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeBackend records calls and serves canned data for every page API
type fakeBackend struct {
	projects       []models.Project
	configurations map[int64][]models.Configuration
	reports        []models.Report
	users          []models.User
	download       []byte

	listErr   error
	mutateErr error

	calls map[string]int
	last  map[string]any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		configurations: map[int64][]models.Configuration{},
		calls:          map[string]int{},
		last:           map[string]any{},
	}
}

func (f *fakeBackend) record(name string, arg any) {
	f.calls[name]++
	f.last[name] = arg
}

func (f *fakeBackend) ListProjects(ctx context.Context) ([]models.Project, error) {
	f.record("ListProjects", nil)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Project(nil), f.projects...), nil
}

func (f *fakeBackend) CreateProject(ctx context.Context, title string) (*models.Project, error) {
	f.record("CreateProject", title)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	p := models.Project{ID: int64(len(f.projects) + 1), Title: title}
	f.projects = append(f.projects, p)
	return &p, nil
}

func (f *fakeBackend) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	f.record("GetProject", projectID)
	for _, p := range f.projects {
		if p.ID == projectID {
			return &p, nil
		}
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound}
}

func (f *fakeBackend) UpdateProject(ctx context.Context, projectID int64, title string) (*models.Project, error) {
	f.record("UpdateProject", title)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	for i := range f.projects {
		if f.projects[i].ID == projectID {
			f.projects[i].Title = title
			return &f.projects[i], nil
		}
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound}
}

func (f *fakeBackend) DeleteProject(ctx context.Context, projectID int64) error {
	f.record("DeleteProject", projectID)
	if f.mutateErr != nil {
		return f.mutateErr
	}
	kept := f.projects[:0]
	for _, p := range f.projects {
		if p.ID != projectID {
			kept = append(kept, p)
		}
	}
	f.projects = kept
	return nil
}

func (f *fakeBackend) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	f.record("SearchUsers", query)
	return f.users, nil
}

func (f *fakeBackend) AddUserToProject(ctx context.Context, projectID int64, userID string) (*models.Project, error) {
	f.record("AddUserToProject", userID)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	for i := range f.projects {
		if f.projects[i].ID == projectID {
			for _, u := range f.users {
				if u.ID == userID {
					f.projects[i].Users = append(f.projects[i].Users, u)
				}
			}
			p := f.projects[i]
			return &p, nil
		}
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound}
}

func (f *fakeBackend) RemoveUserFromProject(ctx context.Context, projectID int64, userID string) (*models.Project, error) {
	f.record("RemoveUserFromProject", userID)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	for i := range f.projects {
		if f.projects[i].ID == projectID {
			var kept []models.User
			for _, u := range f.projects[i].Users {
				if u.ID != userID {
					kept = append(kept, u)
				}
			}
			f.projects[i].Users = kept
			p := f.projects[i]
			return &p, nil
		}
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound}
}

func (f *fakeBackend) ListProjectConfigurations(ctx context.Context, projectID int64) ([]models.Configuration, error) {
	f.record("ListProjectConfigurations", projectID)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Configuration(nil), f.configurations[projectID]...), nil
}

func (f *fakeBackend) CreateConfiguration(ctx context.Context, projectID int64, contextText string) (*models.Configuration, error) {
	f.record("CreateConfiguration", contextText)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	c := models.Configuration{ID: int64(len(f.configurations[projectID]) + 1), Context: contextText, Project: models.Project{ID: projectID}}
	f.configurations[projectID] = append(f.configurations[projectID], c)
	return &c, nil
}

func (f *fakeBackend) UpdateConfiguration(ctx context.Context, configID int64, contextText string) (*models.Configuration, error) {
	f.record("UpdateConfiguration", contextText)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	for pid, configs := range f.configurations {
		for i := range configs {
			if configs[i].ID == configID {
				f.configurations[pid][i].Context = contextText
				c := f.configurations[pid][i]
				return &c, nil
			}
		}
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound}
}

func (f *fakeBackend) DeleteConfiguration(ctx context.Context, configID int64) error {
	f.record("DeleteConfiguration", configID)
	if f.mutateErr != nil {
		return f.mutateErr
	}
	for pid, configs := range f.configurations {
		var kept []models.Configuration
		for _, c := range configs {
			if c.ID != configID {
				kept = append(kept, c)
			}
		}
		f.configurations[pid] = kept
	}
	return nil
}

func (f *fakeBackend) ListReports(ctx context.Context) ([]models.Report, error) {
	f.record("ListReports", nil)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Report(nil), f.reports...), nil
}

func (f *fakeBackend) UploadReport(ctx context.Context, name string, r io.Reader) (*models.ReportMetadata, error) {
	data, _ := io.ReadAll(r)
	f.record("UploadReport", string(data))
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	id := int64(len(f.reports) + 1)
	f.reports = append(f.reports, models.Report{ID: id, Data: data})
	return &models.ReportMetadata{ID: id}, nil
}

func (f *fakeBackend) UpdateReport(ctx context.Context, reportID int64, name string, r io.Reader) (*models.ReportMetadata, error) {
	data, _ := io.ReadAll(r)
	f.record("UpdateReport", string(data))
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	for i := range f.reports {
		if f.reports[i].ID == reportID {
			f.reports[i].Data = data
		}
	}
	return &models.ReportMetadata{ID: reportID}, nil
}

func (f *fakeBackend) DownloadReport(ctx context.Context, reportID int64) ([]byte, error) {
	f.record("DownloadReport", reportID)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return f.download, nil
}

func (f *fakeBackend) DeleteReport(ctx context.Context, reportID int64) error {
	f.record("DeleteReport", reportID)
	if f.mutateErr != nil {
		return f.mutateErr
	}
	var kept []models.Report
	for _, r := range f.reports {
		if r.ID != reportID {
			kept = append(kept, r)
		}
	}
	f.reports = kept
	return nil
}

// drain runs cmd and feeds the page's own result messages back into
// update until no more work is produced. Search debounce ticks are
// followed; cursor blinks are never started here.
func drain(t *testing.T, update func(tea.Msg) tea.Cmd, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("drain did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case projectsLoadedMsg, projectSavedMsg, projectDetailsMsg, membershipChangedMsg,
			userSearchTickMsg, usersFoundMsg,
			configProjectsLoadedMsg, configurationsLoadedMsg, configurationSavedMsg,
			reportsLoadedMsg, reportSavedMsg:
			queue = append(queue, update(msg))
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyDel   = tea.KeyMsg{Type: tea.KeyDelete}
)
