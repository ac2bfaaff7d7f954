package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aiplugin/pkg/httputil"
)

// DefaultCatalogTimeout 拉取模型目录的超时时间
const DefaultCatalogTimeout = 10 * time.Second

// CatalogEntry 供应商 /v1/models 返回的单个模型
type CatalogEntry struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

type catalogResponse struct {
	Object string         `json:"object"`
	Data   []CatalogEntry `json:"data"`
}

// CatalogClient 拉取供应商的 OpenAI 兼容模型目录
type CatalogClient struct {
	http *httputil.Client
}

// NewCatalogClient timeout <= 0 时使用 DefaultCatalogTimeout
func NewCatalogClient(timeout time.Duration, opts ...httputil.ClientOption) *CatalogClient {
	if timeout <= 0 {
		timeout = DefaultCatalogTimeout
	}
	opts = append([]httputil.ClientOption{httputil.WithTimeout(timeout)}, opts...)
	return &CatalogClient{http: httputil.NewClient(opts...)}
}

// CatalogURL host 已以 /v1 结尾时不重复追加
func CatalogURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.HasSuffix(host, "/v1") {
		return host + "/models"
	}
	return host + "/v1/models"
}

// Fetch 拉取模型目录
func (c *CatalogClient) Fetch(ctx context.Context, host, apiKey string) ([]CatalogEntry, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("供应商未配置 api_host")
	}

	var resp catalogResponse
	if err := c.http.GetJSON(ctx, CatalogURL(host), httputil.BearerAuth(apiKey), &resp); err != nil {
		return nil, err
	}

	entries := make([]CatalogEntry, 0, len(resp.Data))
	for _, entry := range resp.Data {
		if entry.ID == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
