package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

func recordPath(storeID, key string) string {
	return fmt.Sprintf("/v2/key-value-stores/%s/records/%s", url.PathEscape(storeID), url.PathEscape(key))
}

// GetRecord reads a record from a key-value store.
// A missing record is returned as nil with no error.
func (c *Client) GetRecord(ctx context.Context, req *entities.GetRecordRequest) (*entities.Record, error) {
	if req == nil || req.StoreID == "" || req.Key == "" {
		return nil, fmt.Errorf("store ID and key are required")
	}

	resp, err := c.doRequest(ctx, http.MethodGet, recordPath(req.StoreID, req.Key), req.Token, func(r *resty.Request) {
		r.SetHeader("Accept", "*/*")
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	record := &entities.Record{
		Key:         req.Key,
		ContentType: resp.Header().Get("Content-Type"),
	}

	if req.DisableBodyParser {
		record.Body = resp.Body()
		return record, nil
	}

	body, err := entities.ParseRecordBody(record.ContentType, resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", req.Key, err)
	}
	record.Body = body
	return record, nil
}

// PutRecord stores a record in a key-value store
func (c *Client) PutRecord(ctx context.Context, req *entities.PutRecordRequest) error {
	if req == nil || req.StoreID == "" || req.Key == "" {
		return fmt.Errorf("store ID and key are required")
	}

	_, err := c.doRequest(ctx, http.MethodPut, recordPath(req.StoreID, req.Key), req.Token, func(r *resty.Request) {
		if req.ContentType != "" {
			r.SetHeader("Content-Type", req.ContentType)
		}
		r.SetBody(req.Body)
	})
	return err
}

// DeleteRecord removes a record from a key-value store; a missing record is not an error
func (c *Client) DeleteRecord(ctx context.Context, storeID, key, token string) error {
	if storeID == "" || key == "" {
		return fmt.Errorf("store ID and key are required")
	}

	_, err := c.doRequest(ctx, http.MethodDelete, recordPath(storeID, key), token, nil)
	if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}
