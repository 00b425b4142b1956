package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/phambaophuc/vector-art/pkg/utils"
	"go.uber.org/zap"
)

const maxSignedURLSize = 64 * 1024

// Upload transfers file to a freshly signed destination and returns its public content address.
func (c *Client) Upload(ctx context.Context, file models.UploadFile) (string, error) {
	fileName := utils.NanoID(utils.DefaultNanoIDLength) + "." + utils.UploadExtension(file.Filename)

	target, err := c.requestUploadTarget(ctx, fileName)
	if err != nil {
		return "", err
	}
	c.logger.Debug("Got signed URL", zap.String("file_name", fileName))

	if err := c.transfer(ctx, target, file); err != nil {
		return "", err
	}

	contentAddress := c.contentBase + "/" + target.FileName
	c.logger.Info("Uploaded file",
		zap.String("file_name", target.FileName),
		zap.String("content_address", contentAddress),
		zap.Int64("size", file.Size()))

	return contentAddress, nil
}

func (c *Client) requestUploadTarget(ctx context.Context, fileName string) (*models.UploadTarget, error) {
	const op = "get signed URL"

	endpoint := c.apiBase + "/get-emd-upload-url?fileName=" + url.QueryEscape(fileName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(op, resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSignedURLSize))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	signed := strings.TrimSpace(string(raw))
	if signed == "" {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Status: "empty signed URL"}
	}

	return &models.UploadTarget{FileName: fileName, WriteAddress: signed}, nil
}

func (c *Client) transfer(ctx context.Context, target *models.UploadTarget, file models.UploadFile) error {
	const op = "upload file"

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.WriteAddress, bytes.NewReader(file.Data))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = file.Size()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, resp)
	}
	return nil
}
