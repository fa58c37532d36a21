package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"activityScope/internal/dashboard"
	"activityScope/internal/feed"
	"activityScope/internal/model"
	"activityScope/internal/view"
	"activityScope/internal/wallet"
)

const alfajores = 44787

type fakeQuery struct {
	result    feed.Result
	ensured   int
	refetched int
}

func (q *fakeQuery) Snapshot() feed.Result { return q.result }

func (q *fakeQuery) EnsureFresh(context.Context) feed.Result {
	q.ensured++
	return q.result
}

func (q *fakeQuery) Refetch(context.Context) feed.Result {
	q.refetched++
	return q.result
}

type fakeAccounts struct {
	acc wallet.Account
	err error
}

func (a fakeAccounts) Account(context.Context) (wallet.Account, error) { return a.acc, a.err }

func connected() fakeAccounts {
	return fakeAccounts{acc: wallet.Account{
		Address:   common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Connected: true,
		ChainID:   alfajores,
	}}
}

func populated(n int) feed.Result {
	events := make([]model.Event, 0, n)
	for i := n; i > 0; i-- {
		events = append(events, model.NameRegistered{
			Meta: model.Meta{BlockNumber: uint64(i), LogIndex: 0},
			Name: "alice",
		})
	}
	return feed.Result{Status: feed.StatusSuccess, Events: events}
}

func newServer(q Query, accounts AccountSource, checker Checker) *Server {
	return New(Config{RequiredChainID: alfajores, Limit: 10}, q, accounts, checker, nil)
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) view.Snapshot {
	t.Helper()
	var snap view.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	return snap
}

func TestActivityPopulated(t *testing.T) {
	q := &fakeQuery{result: populated(3)}
	srv := newServer(q, connected(), Checker{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	require.Equal(t, view.StatePopulated, snap.State)
	require.Len(t, snap.Items, 2)
	require.Equal(t, 1, snap.Remaining)
	require.Equal(t, 1, q.ensured)
}

func TestActivityBadLimit(t *testing.T) {
	srv := newServer(&fakeQuery{}, connected(), Checker{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity?limit=abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActivityNoWalletSkipsFetch(t *testing.T) {
	q := &fakeQuery{result: populated(1)}
	srv := newServer(q, fakeAccounts{}, Checker{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity", nil))
	require.Equal(t, view.StateNoWallet, decodeSnapshot(t, rec).State)
	require.Zero(t, q.ensured)
}

func TestActivityWrongNetwork(t *testing.T) {
	accounts := connected()
	accounts.acc.ChainID = 1
	q := &fakeQuery{result: populated(1)}
	srv := newServer(q, accounts, Checker{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity", nil))
	require.Equal(t, view.StateWrongNetwork, decodeSnapshot(t, rec).State)
	require.Zero(t, q.ensured)
}

func TestActivityText(t *testing.T) {
	srv := newServer(&fakeQuery{result: feed.Result{Status: feed.StatusError, Err: errors.New("rpc")}}, connected(), Checker{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity?format=text", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "Failed to Load"))
}

func TestRefresh(t *testing.T) {
	q := &fakeQuery{result: populated(1)}
	srv := newServer(q, connected(), Checker{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/activity/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, q.refetched)
	require.Zero(t, q.ensured)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity/refresh", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newServer(&fakeQuery{}, connected(), Checker{RPCPing: func(context.Context) error { return nil }})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, map[string]string{"status": "ok", "rpc": "ok"}, body)
}

func TestHealthRPCDown(t *testing.T) {
	srv := newServer(&fakeQuery{}, connected(), Checker{RPCPing: func(context.Context) error { return errors.New("down") }})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	srv := newServer(&fakeQuery{}, connected(), Checker{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

type fakeDashboard struct {
	sum  dashboard.Summary
	err  error
	seen wallet.Account
}

func (d *fakeDashboard) Summary(_ context.Context, acc wallet.Account) (dashboard.Summary, error) {
	d.seen = acc
	return d.sum, d.err
}

func TestDashboardNotConfigured(t *testing.T) {
	srv := newServer(&fakeQuery{}, connected(), Checker{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardSummary(t *testing.T) {
	d := &fakeDashboard{sum: dashboard.Summary{
		TotalProposals:  "12",
		ActiveProposals: 2,
		YourVotes:       4,
		Proposals:       []dashboard.Proposal{{ID: "12", Description: "Hackathon", Open: true}},
		Recent:          view.Snapshot{State: view.StateEmpty, Title: "No Recent Activity"},
	}}
	accounts := connected()
	srv := newServer(&fakeQuery{}, accounts, Checker{})
	srv.SetDashboard(d)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, accounts.acc, d.seen)

	var sum dashboard.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sum))
	require.Equal(t, "12", sum.TotalProposals)
	require.Equal(t, 2, sum.ActiveProposals)
	require.Len(t, sum.Proposals, 1)
	require.Equal(t, view.StateEmpty, sum.Recent.State)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard?format=text", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Total Proposals: 12")
}

func TestDashboardError(t *testing.T) {
	d := &fakeDashboard{
		sum: dashboard.Summary{TotalProposals: "0", Recent: view.Snapshot{State: view.StateError}},
		err: errors.New("rpc down"),
	}
	srv := newServer(&fakeQuery{}, connected(), Checker{})
	srv.SetDashboard(d)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var sum dashboard.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sum))
	require.Equal(t, view.StateError, sum.Recent.State)
}
