package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "https://discord.com/api/v10"

	messagesPath = "/channels/{channel_id}/messages"
	messagePath  = "/channels/{channel_id}/messages/{message_id}"
)

// APIError is a non-2xx answer from the REST API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api error (status %d): %s", e.Status, e.Body)
}

// RESTClient sends and deletes channel messages.
type RESTClient struct {
	client *resty.Client
	logger *zap.Logger
}

func NewRESTClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *RESTClient {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Authorization", "Bot "+token)
	client.SetHeader("User-Agent", "DiscordBot (tickerbot, 1.0)")

	// One retry on rate limiting
	client.SetRetryCount(1)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetRetryMaxWaitTime(5 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err == nil && r.StatusCode() == http.StatusTooManyRequests
	})

	return &RESTClient{client: client, logger: logger}
}

// SendMessage posts msg to the channel. With files the request is sent as
// multipart with the message in payload_json.
func (c *RESTClient) SendMessage(ctx context.Context, channelID string, msg MessageSend, files ...File) (*Message, error) {
	var out Message
	req := c.client.R().
		SetContext(ctx).
		SetPathParam("channel_id", channelID).
		SetResult(&out)

	if len(files) == 0 {
		req.SetBody(msg)
	} else {
		payload, err := json.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("encode message: %w", err)
		}

		fields := []*resty.MultipartField{{
			Param:       "payload_json",
			ContentType: "application/json",
			Reader:      bytes.NewReader(payload),
		}}
		for i, f := range files {
			contentType := f.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			fields = append(fields, &resty.MultipartField{
				Param:       fmt.Sprintf("files[%d]", i),
				FileName:    f.Name,
				ContentType: contentType,
				Reader:      bytes.NewReader(f.Data),
			})
		}
		req.SetMultipartFields(fields...)
	}

	resp, err := req.Post(messagesPath)
	if err != nil {
		return nil, fmt.Errorf("send message failed: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return &out, nil
}

func (c *RESTClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"channel_id": channelID,
			"message_id": messageID,
		}).
		Delete(messagePath)
	if err != nil {
		return fmt.Errorf("delete message failed: %w", err)
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

// SendNotice posts a plain text message and deletes it after ttl. A ttl of
// zero keeps the message.
func (c *RESTClient) SendNotice(ctx context.Context, channelID, content string, ttl time.Duration) error {
	sent, err := c.SendMessage(ctx, channelID, MessageSend{Content: content})
	if err != nil {
		return err
	}
	if ttl <= 0 || sent.ID == "" {
		return nil
	}

	time.AfterFunc(ttl, func() {
		delCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.DeleteMessage(delCtx, channelID, sent.ID); err != nil {
			c.logger.Warn("failed to delete notice",
				zap.String("channel_id", channelID),
				zap.String("message_id", sent.ID),
				zap.Error(err))
		}
	})
	return nil
}
