package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-telegram/bot"
)

// DownloadFile downloads a file from Telegram by file ID. Files larger than
// maxBytes are rejected without reading them fully.
func DownloadFile(ctx context.Context, b *bot.Bot, fileID string, maxBytes int) ([]byte, string, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("get file: %w", err)
	}
	if maxBytes > 0 && file.FileSize > int64(maxBytes) {
		return nil, "", fmt.Errorf("file %s is %d bytes, limit %d", file.FilePath, file.FileSize, maxBytes)
	}

	fileURL := b.FileDownloadLink(file)

	req, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if maxBytes > 0 {
		// One extra byte so an oversized body is detectable.
		body = io.LimitReader(resp.Body, int64(maxBytes)+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("read file data: %w", err)
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, "", fmt.Errorf("file %s exceeds %d bytes", file.FilePath, maxBytes)
	}

	return data, file.FilePath, nil
}
