package carbonapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/session"
)

// UploadIFC posts an IFC model as multipart form data (fields "file" and
// "comment"). The backend answers with the version it created.
func (c *Client) UploadIFC(ctx context.Context, id session.Identity, projectID, fileName string, content []byte, comment string) (*domain.UploadVersion, error) {
	const op = "UploadIFC"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("%s: create form file: %w", op, err)
	}
	if _, err := fw.Write(content); err != nil {
		return nil, fmt.Errorf("%s: write form file: %w", op, err)
	}
	if err := mw.WriteField("comment", comment); err != nil {
		return nil, fmt.Errorf("%s: write comment: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: close multipart: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(projectPath(projectID, "upload_ifc"), nil), &body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var v domain.UploadVersion
	if err := c.do(ctx, c.uploadClient, id, op, req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
