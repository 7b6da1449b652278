package supabase

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func objectPath(bucket, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

// Upload writes data to bucket/path. With upsert an existing object is replaced.
func (c *Client) Upload(ctx context.Context, token, bucket, path string, data []byte, contentType string, upsert bool) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req := request{
		method:      http.MethodPost,
		path:        "/storage/v1/object/" + objectPath(bucket, path),
		token:       token,
		body:        bytes.NewReader(data),
		contentType: contentType,
		headers: map[string]string{
			"x-upsert":      strconv.FormatBool(upsert),
			"cache-control": "max-age=3600",
		},
	}
	return c.do(ctx, req, nil)
}

// PublicURL is the unauthenticated download URL of an object in a public bucket.
func (c *Client) PublicURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/public/" + objectPath(bucket, path)
}
