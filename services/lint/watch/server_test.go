// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/langcheck/services/lint/engine"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouter_Healthz(t *testing.T) {
	router := NewRouter(NewService(newFakeChecker(), ServiceOptions{}), nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Results(t *testing.T) {
	svc := NewService(newFakeChecker(), ServiceOptions{})
	svc.HandleChanges(context.Background(), changes("/proj/a.fk"))
	router := NewRouter(svc, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/results", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []struct {
			File     string `json:"file"`
			Status   string `json:"status"`
			ExitCode int    `json:"exit_code"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "/proj/a.fk", body.Results[0].File)
	assert.Equal(t, "checked", body.Results[0].Status)
	assert.Equal(t, 2, body.Results[0].ExitCode)
}

func TestRouter_ResultByFile(t *testing.T) {
	svc := NewService(newFakeChecker(), ServiceOptions{})
	svc.HandleChanges(context.Background(), changes("/proj/a.fk"))
	router := NewRouter(svc, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/results?file=/proj/a.fk", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad thing")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/results?file=/proj/nope.fk", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("langcheck_checks_total 1\n"))
	})
	router := NewRouter(NewService(newFakeChecker(), ServiceOptions{}), nil, metrics)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "langcheck_checks_total")

	router = NewRouter(NewService(newFakeChecker(), ServiceOptions{}), nil, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHub_BroadcastsResults(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()
	svc := NewService(newFakeChecker(), ServiceOptions{Publisher: hub})
	srv := httptest.NewServer(NewRouter(svc, hub, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var hello Event
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, EventHello, hello.Type)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	svc.HandleChanges(context.Background(), changes("/proj/a.fk"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev struct {
		Type   string `json:"type"`
		Result struct {
			File        string `json:"file"`
			Status      string `json:"status"`
			Diagnostics []struct {
				Message string `json:"message"`
			} `json:"diagnostics"`
		} `json:"result"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventResult, ev.Type)
	assert.Equal(t, "/proj/a.fk", ev.Result.File)
	assert.Equal(t, string(engine.StatusChecked), ev.Result.Status)
	require.Len(t, ev.Result.Diagnostics, 1)
	assert.Equal(t, "bad thing", ev.Result.Diagnostics[0].Message)
}

func TestHub_ClientDisconnectRemoves(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(NewRouter(NewService(newFakeChecker(), ServiceOptions{}), hub, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	assert.NotPanics(t, func() {
		hub.Publish(&engine.CheckResult{File: "/x.fk", Status: engine.StatusChecked})
	})
	hub.Close()
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	router := NewRouter(NewService(newFakeChecker(), ServiceOptions{}), nil, nil)
	errCh := make(chan error, 1)
	go func() { errCh <- Serve(ctx, addr, router, nil) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_BadAddress(t *testing.T) {
	err := Serve(context.Background(), "not-an-address", http.NotFoundHandler(), nil)
	assert.Error(t, err)
}
