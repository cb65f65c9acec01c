package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/router"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name string `json:"name" form:"name"`
}

type echoResponse struct {
	Name   string `json:"name"`
	Caller string `json:"caller"`
}

type envelope struct {
	Code  int64         `json:"code"`
	Error string        `json:"error"`
	Data  *echoResponse `json:"data"`
}

func newTestRouter() http.Handler {
	r := router.New(context.Background())
	r.Before(func(ctx context.Context, req *http.Request) (context.Context, error) {
		return xcontext.WithRequestUserID(ctx, req.Header.Get("X-Caller")), nil
	})

	echo := func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		switch req.Name {
		case "bad":
			return nil, errorx.New(errorx.RoundEnded, "Round has ended")
		case "crash":
			return nil, errors.New("boom")
		}

		return &echoResponse{Name: req.Name, Caller: xcontext.RequestUserID(ctx)}, nil
	}

	router.GET(r, "/echo", echo)
	router.POST(r, "/echo", echo)
	return r.Handler([]string{"*"})
}

func serve(t *testing.T, h http.Handler, req *http.Request) envelope {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRouter_GET(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/echo?name=alice", nil)
	req.Header.Set("X-Caller", "0xabc")
	resp := serve(t, h, req)

	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, "alice", resp.Data.Name)
	require.Equal(t, "0xabc", resp.Data.Caller)
}

func TestRouter_POST(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{"name":"bob"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(t, h, req)

	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, "bob", resp.Data.Name)
}

func TestRouter_Errors(t *testing.T) {
	h := newTestRouter()

	resp := serve(t, h, httptest.NewRequest(http.MethodGet, "/echo?name=bad", nil))
	require.Equal(t, int64(errorx.RoundEnded), resp.Code)
	require.Equal(t, "Round has ended", resp.Error)

	resp = serve(t, h, httptest.NewRequest(http.MethodGet, "/echo?name=crash", nil))
	require.Equal(t, int64(errorx.Unknown.Code), resp.Code)
	require.Equal(t, errorx.Unknown.Message, resp.Error)

	resp = serve(t, h, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{`)))
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
}
