// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/wneessen/weather-dashboard/internal/http"
)

// HTTPSink posts each entry as JSON to a remote endpoint.
type HTTPSink struct {
	http     *http.Client
	endpoint string
	headers  map[string]string
}

// NewHTTPSink returns a sink for endpoint. If token is not empty, it is sent as bearer token.
func NewHTTPSink(client *http.Client, endpoint, token string) *HTTPSink {
	headers := map[string]string{"Content-Type": "application/json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &HTTPSink{http: client, endpoint: endpoint, headers: headers}
}

func (s *HTTPSink) Send(ctx context.Context, entry Entry) error {
	body := bytes.NewBuffer(nil)
	if err := json.NewEncoder(body).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode telemetry entry: %w", err)
	}
	var ack json.RawMessage
	if _, err := s.http.Post(ctx, s.endpoint, &ack, body, s.headers); err != nil {
		return fmt.Errorf("failed to send telemetry entry: %w", err)
	}
	return nil
}
