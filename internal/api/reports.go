package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"specter/internal/models"
)

// reportFormField is the multipart field the backend reads the file from
const reportFormField = "file"

// ListReports retrieves all reports visible to the current user
func (c *Client) ListReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports", nil, &reports); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// UploadReport uploads the contents of r as a new report
func (c *Client) UploadReport(ctx context.Context, name string, r io.Reader) (*models.ReportMetadata, error) {
	body, contentType, err := createReportForm(name, r)
	if err != nil {
		return nil, err
	}

	var meta models.ReportMetadata
	if err := c.doMultipart(ctx, http.MethodPost, "/api/reports", body, contentType, &meta); err != nil {
		return nil, fmt.Errorf("report upload failed: %w", err)
	}
	return &meta, nil
}

// UpdateReport replaces the data of an existing report
func (c *Client) UpdateReport(ctx context.Context, reportID int64, name string, r io.Reader) (*models.ReportMetadata, error) {
	body, contentType, err := createReportForm(name, r)
	if err != nil {
		return nil, err
	}

	meta := models.ReportMetadata{ID: reportID}
	if err := c.doMultipart(ctx, http.MethodPut, reportPath(reportID), body, contentType, &meta); err != nil {
		return nil, fmt.Errorf("report update failed: %w", err)
	}
	return &meta, nil
}

// DownloadReport returns the raw bytes of a report
func (c *Client) DownloadReport(ctx context.Context, reportID int64) ([]byte, error) {
	data, err := c.do(ctx, http.MethodGet, reportPath(reportID)+"/download", nil, "")
	if err != nil {
		return nil, fmt.Errorf("report download failed: %w", err)
	}
	return data, nil
}

// DeleteReport deletes a report
func (c *Client) DeleteReport(ctx context.Context, reportID int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, reportPath(reportID), nil, nil); err != nil {
		return fmt.Errorf("report deletion failed: %w", err)
	}
	return nil
}

func (c *Client) doMultipart(ctx context.Context, method, path string, body *bytes.Buffer, contentType string, out any) error {
	data, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return decodeBody(data, out)
}

// createReportForm builds a multipart body holding a single file part
func createReportForm(name string, r io.Reader) (*bytes.Buffer, string, error) {
	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	if name == "" {
		name = "report.bin"
	}
	part, err := writer.CreateFormFile(reportFormField, filepath.Base(name))
	if err != nil {
		return nil, "", fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("error copying report data: %w", err)
	}

	contentType := writer.FormDataContentType()
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("error closing multipart writer: %w", err)
	}
	return &requestBody, contentType, nil
}

func reportPath(reportID int64) string {
	return fmt.Sprintf("/api/reports/%d", reportID)
}
