// Package gdocs copies, exports and removes invoice documents through the
// Google Docs and Drive APIs.
package gdocs

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"invoicer/internal/googleauth"
	"invoicer/internal/logger"
	"invoicer/internal/render"
)

// Service talks to the Docs and Drive APIs on behalf of the invoice flow.
type Service struct {
	docsService  *docs.Service
	driveService *drive.Service
	log          zerolog.Logger
}

// NewService creates the document service.
func NewService(ctx context.Context) (*Service, error) {
	const op = "NewService"

	client, err := googleauth.NewHTTPClient(ctx, docs.DocumentsScope, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docsService, err := docs.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create docs service: %w", op, err)
	}
	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create drive service: %w", op, err)
	}

	return &Service{
		docsService:  docsService,
		driveService: driveService,
		log:          logger.WithComponent("gdocs"),
	}, nil
}

// CopyTemplate copies the template document into the target folder under the
// given name and returns a handle on the copy.
func (s *Service) CopyTemplate(ctx context.Context, templateID, name, folderID string) (render.Document, error) {
	const op = "CopyTemplate"

	file, err := s.driveService.Files.Copy(templateID, &drive.File{
		Name:    name,
		Parents: []string{folderID},
	}).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to copy template %s: %w", op, templateID, err)
	}

	url := file.WebViewLink
	if url == "" {
		url = fmt.Sprintf("https://docs.google.com/document/d/%s/edit", file.Id)
	}

	s.log.Debug().
		Str("template_id", templateID).
		Str("document_id", file.Id).
		Str("name", name).
		Msg("Copied template document")

	return &googleDoc{service: s, id: file.Id, url: url}, nil
}

// ExportPDF renders the document to PDF bytes.
func (s *Service) ExportPDF(ctx context.Context, documentID string) ([]byte, error) {
	const op = "ExportPDF"

	resp, err := s.driveService.Files.Export(documentID, "application/pdf").Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to export document %s: %w", op, documentID, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read export body: %w", op, err)
	}

	s.log.Debug().
		Str("document_id", documentID).
		Int("bytes", len(content)).
		Msg("Exported document to PDF")

	return content, nil
}

// StorePDF uploads PDF content into the target folder and returns the stored
// file's URL.
func (s *Service) StorePDF(ctx context.Context, name, folderID string, content []byte) (string, error) {
	const op = "StorePDF"

	file, err := s.driveService.Files.Create(&drive.File{
		Name:     name,
		MimeType: "application/pdf",
		Parents:  []string{folderID},
	}).Media(bytes.NewReader(content)).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%s: failed to store PDF %q: %w", op, name, err)
	}

	url := file.WebViewLink
	if url == "" {
		url = fmt.Sprintf("https://drive.google.com/file/d/%s/view", file.Id)
	}

	s.log.Debug().
		Str("file_id", file.Id).
		Str("name", name).
		Msg("Stored PDF")

	return url, nil
}

// Trash moves a Drive file to the trash.
func (s *Service) Trash(ctx context.Context, fileID string) error {
	const op = "Trash"

	_, err := s.driveService.Files.Update(fileID, &drive.File{Trashed: true}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to trash file %s: %w", op, fileID, err)
	}
	return nil
}
