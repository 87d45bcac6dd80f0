package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

// RunActor starts a new run of an actor and returns it without waiting
func (c *Client) RunActor(ctx context.Context, req *entities.RunActorRequest) (*entities.Run, error) {
	if req == nil || req.ActorID == "" {
		return nil, fmt.Errorf("actor ID is required")
	}

	path := fmt.Sprintf("/v2/acts/%s/runs", url.PathEscape(escapeActorID(req.ActorID)))
	resp, err := c.doRequest(ctx, http.MethodPost, path, req.Token, func(r *resty.Request) {
		if req.Build != "" {
			r.SetQueryParam("build", req.Build)
		}
		if req.Memory > 0 {
			r.SetQueryParam("memory", strconv.Itoa(req.Memory))
		}
		if req.Body != nil {
			if req.ContentType != "" {
				r.SetHeader("Content-Type", req.ContentType)
			}
			r.SetBody(req.Body)
		}
	})
	if err != nil {
		return nil, err
	}

	var run entities.Run
	if err := c.parseData(resp, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun retrieves a run, optionally long-polling until it finishes.
// A run the API does not know (yet) is returned as nil with no error.
func (c *Client) GetRun(ctx context.Context, req *entities.GetRunRequest) (*entities.Run, error) {
	if req == nil || req.ActorID == "" || req.RunID == "" {
		return nil, fmt.Errorf("actor ID and run ID are required")
	}

	path := fmt.Sprintf("/v2/acts/%s/runs/%s", url.PathEscape(escapeActorID(req.ActorID)), url.PathEscape(req.RunID))
	resp, err := c.doRequest(ctx, http.MethodGet, path, req.Token, func(r *resty.Request) {
		if req.WaitForFinishSecs > 0 {
			r.SetQueryParam("waitForFinish", strconv.Itoa(req.WaitForFinishSecs))
		}
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var run *entities.Run
	if err := c.parseData(resp, &run); err != nil {
		return nil, err
	}
	return run, nil
}
