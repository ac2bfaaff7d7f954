package aiinterface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// ExtraTransport 为出站请求追加 extra_headers，并把 extra_body 合并进 JSON 请求体
type ExtraTransport struct {
	Base    http.RoundTripper
	Headers map[string]string
	Body    map[string]any
}

type bodyFieldsKey struct{}

// WithBodyFields 为单次请求附加请求体字段，优先级低于 extra_body
func WithBodyFields(ctx context.Context, fields map[string]any) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	return context.WithValue(ctx, bodyFieldsKey{}, fields)
}

func bodyFieldsFrom(ctx context.Context) map[string]any {
	fields, _ := ctx.Value(bodyFieldsKey{}).(map[string]any)
	return fields
}

// WrapHTTPClient 返回带 extra 参数的 HTTP 客户端
func WrapHTTPClient(client *http.Client, settings ModelSettings) *http.Client {
	if client == nil {
		client = http.DefaultClient
	}
	wrapped := *client
	wrapped.Transport = &ExtraTransport{
		Base:    client.Transport,
		Headers: settings.ExtraHeaders,
		Body:    settings.ExtraBody,
	}
	return &wrapped
}

// RoundTrip 实现 http.RoundTripper
func (t *ExtraTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	out := req.Clone(req.Context())
	for k, v := range t.Headers {
		out.Header.Set(k, v)
	}

	extra := t.Body
	if fields := bodyFieldsFrom(req.Context()); len(fields) > 0 {
		extra = make(map[string]any, len(fields)+len(t.Body))
		for k, v := range fields {
			extra[k] = v
		}
		for k, v := range t.Body {
			extra[k] = v
		}
	}

	if len(extra) > 0 && req.Body != nil && req.Body != http.NoBody {
		raw, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("读取请求体失败: %w", err)
		}
		merged, err := mergeJSONBody(raw, extra)
		if err != nil {
			return nil, err
		}
		out.Body = io.NopCloser(bytes.NewReader(merged))
		out.ContentLength = int64(len(merged))
		out.Header.Set("Content-Length", strconv.Itoa(len(merged)))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(merged)), nil
		}
	}

	return base.RoundTrip(out)
}

// mergeJSONBody extra 中的键覆盖原请求体中的同名键；非 JSON 对象的请求体原样返回
func mergeJSONBody(raw []byte, extra map[string]any) ([]byte, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return raw, nil
	}
	for k, v := range extra {
		body[k] = v
	}
	merged, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("合并请求体失败: %w", err)
	}
	return merged, nil
}
