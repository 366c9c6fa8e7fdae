// Package api wraps the storefront REST endpoints. Every call goes through
// a Doer, normally the token-refreshing gateway; callers never set
// credentials themselves.
package api

import (
	"context"
	"net/http"
	"net/url"

	"storefront-client/internal/gateway"
)

type Doer interface {
	Do(ctx context.Context, req *gateway.Request) (*gateway.Response, error)
}

func call(ctx context.Context, doer Doer, method, path string, body, out interface{}) (*gateway.Response, error) {
	return send(ctx, doer, &gateway.Request{Method: method, Path: path, Body: body}, out)
}

// query issues a GET with URL parameters; empty values are left out.
func query(ctx context.Context, doer Doer, path string, params url.Values, out interface{}) (*gateway.Response, error) {
	for key, values := range params {
		if len(values) == 0 || values[0] == "" {
			params.Del(key)
		}
	}
	return send(ctx, doer, &gateway.Request{Method: http.MethodGet, Path: path, Query: params}, out)
}

func send(ctx context.Context, doer Doer, req *gateway.Request, out interface{}) (*gateway.Response, error) {
	resp, err := doer.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := resp.Decode(out); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
