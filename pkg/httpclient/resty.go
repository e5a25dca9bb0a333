package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
}

func New(baseURL string, timeout time.Duration, bearerToken string) HTTPClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "cyclescope-domain-api")

	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	if bearerToken != "" {
		client.SetAuthToken(bearerToken)
	}

	return &RestyClient{client: client}
}

// GET request with optional query params
func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().SetContext(ctx)

	if result != nil {
		req.SetResult(result)
	}
	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(endpoint)
	return toBaseResponse(resp), err
}

// HEAD request, used to probe resources without downloading them
func (rc *RestyClient) Head(ctx context.Context, endpoint string, headers map[string]string) (*BaseResponse, error) {
	req := rc.client.R().SetContext(ctx)

	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Head(endpoint)
	return toBaseResponse(resp), err
}

func toBaseResponse(resp *resty.Response) *BaseResponse {
	if resp == nil {
		return &BaseResponse{}
	}
	return &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}
}
