package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"media-courier-be/internal/pkg/logger"
)

const defaultAPIBaseURL = "https://api.telegram.org"

// TelegramClient sends worker output through the Telegram Bot API. Uploads
// get a generous timeout since videos close to the inline limit take a while
// on slow links.
type TelegramClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        logger.ILogger
}

func NewTelegramClient(token, apiBaseURL string, log logger.ILogger) *TelegramClient {
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	return &TelegramClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		baseURL:    strings.TrimRight(apiBaseURL, "/"),
		token:      token,
		log:        log,
	}
}

type apiResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *TelegramClient) EditStatus(ctx context.Context, chatId, messageRef int64, text string) error {
	return c.callJSON(ctx, "editMessageText", map[string]interface{}{
		"chat_id":    chatId,
		"message_id": messageRef,
		"text":       text,
	})
}

func (c *TelegramClient) SendText(ctx context.Context, chatId int64, text string) error {
	return c.callJSON(ctx, "sendMessage", map[string]interface{}{
		"chat_id": chatId,
		"text":    text,
	})
}

func (c *TelegramClient) SendVideo(ctx context.Context, chatId int64, path, caption string, width, height int) error {
	fields := map[string]string{
		"chat_id": strconv.FormatInt(chatId, 10),
	}
	if caption != "" {
		fields["caption"] = caption
	}
	if width > 0 && height > 0 {
		fields["width"] = strconv.Itoa(width)
		fields["height"] = strconv.Itoa(height)
	}
	return c.upload(ctx, "sendVideo", "video", path, fields)
}

func (c *TelegramClient) SendAnimation(ctx context.Context, chatId int64, path, caption string) error {
	fields := map[string]string{
		"chat_id": strconv.FormatInt(chatId, 10),
	}
	if caption != "" {
		fields["caption"] = caption
	}
	return c.upload(ctx, "sendAnimation", "animation", path, fields)
}

func (c *TelegramClient) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

func (c *TelegramClient) callJSON(ctx context.Context, method string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, method)
}

func (c *TelegramClient) upload(ctx context.Context, method, fileField, path string, fields map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile(fileField, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, method)
}

func (c *TelegramClient) do(req *http.Request, method string) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if !api.Ok {
		return fmt.Errorf("%s: %s", method, api.Description)
	}
	return nil
}
