package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sightline/pkg/integrations"
)

// ElasticsearchClient checks cluster reachability with the API key the
// tenant is about to store.
type ElasticsearchClient struct {
	base   string
	header http.Header
}

func NewElasticsearchClient(creds map[string]string) (*ElasticsearchClient, error) {
	host := strings.TrimRight(creds["host"], "/")
	if host == "" {
		return nil, integrations.Invalid("elasticsearch requires a host")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	if p := creds["port"]; p != "" {
		if _, err := strconv.Atoi(p); err != nil {
			return nil, integrations.Invalid("elasticsearch port must be numeric")
		}
		host = host + ":" + p
	}
	h := http.Header{}
	if id, key := creds["api_key_id"], creds["api_key"]; id != "" && key != "" {
		h.Set("Authorization", "ApiKey "+base64.StdEncoding.EncodeToString([]byte(id+":"+key)))
	}
	return &ElasticsearchClient{base: host, header: h}, nil
}

// Ping hits _cluster/health; any 2xx with a non-red status counts as
// reachable.
func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	doc, err := getJSON(ctx, c.base+"/_cluster/health", c.header)
	if err != nil {
		return err
	}
	if m, ok := doc.(map[string]any); ok {
		if s, _ := m["status"].(string); s == "red" {
			return fmt.Errorf("cluster status is red")
		}
	}
	return nil
}
