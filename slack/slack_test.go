package slack_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"mealcompanion/slack"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

type mockDoer struct {
	resp   *http.Response
	err    error
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return m.resp, m.err
}

func TestNewClient(t *testing.T) {
	webhook := "http://slack.com/webhook"
	client := slack.NewClient(webhook, &mockDoer{})
	must.NotNil(t, client, "expected non-nil client")
}

func TestPostMessage(t *testing.T) {
	tests := []struct {
		name    string
		doFunc  func(req *http.Request) (*http.Response, error)
		wantErr error
	}{
		{
			name: "success",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString("ok"))}, nil
			},
			wantErr: nil,
		},
		{
			name: "failure status with reason",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusNotFound, Status: "404 Not Found", Body: io.NopCloser(bytes.NewBufferString("channel_not_found\n"))}, nil
			},
			wantErr: fmt.Errorf("failed to post message: 404 Not Found: channel_not_found"),
		},
		{
			name: "failure status without body",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway", Body: io.NopCloser(bytes.NewBufferString(""))}, nil
			},
			wantErr: fmt.Errorf("failed to post message: 502 Bad Gateway"),
		},
		{
			name: "do error",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("network error")
			},
			wantErr: fmt.Errorf("network error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := slack.NewClient("http://example.com/webhook", &mockDoer{doFunc: tt.doFunc})
			err := client.PostMessage(context.Background(), "#groceries", "[ ] 2 eggs")
			should.Equal(t, tt.wantErr, err)
		})
	}
}

func TestPostMessage_Payload(t *testing.T) {
	var got map[string]string
	doer := &mockDoer{doFunc: func(req *http.Request) (*http.Response, error) {
		must.Equal(t, http.MethodPost, req.Method)
		must.Equal(t, "application/json", req.Header.Get("Content-Type"))
		must.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString("ok"))}, nil
	}}

	err := slack.NewClient("http://example.com/webhook", doer).PostMessage(context.Background(), "#groceries", "[ ] 2 eggs")
	must.NoError(t, err)
	should.Equal(t, map[string]string{
		"channel":    "#groceries",
		"text":       "[ ] 2 eggs",
		"username":   slack.DefaultUsername,
		"icon_emoji": slack.DefaultIconEmoji,
	}, got)
}
