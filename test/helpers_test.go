package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

func (s *IntegrationTestSuite) do(method, path, body string, headers map[string]string) (int, []byte) {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("close response body: %s", err)
		}
	}()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) getJSON(path string, v any) {
	status, body := s.do("GET", path, "", nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	s.Require().NoError(json.Unmarshal(body, v))
}
