package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"activityScope/internal/feed"
	"activityScope/internal/model"
	"activityScope/internal/wallet"
)

const alfajores = 44787

func connectedInput() Input {
	return Input{
		Account: wallet.Account{
			Address:   common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
			Connected: true,
			ChainID:   alfajores,
		},
		RequiredChainID: alfajores,
	}
}

func events(n int) []model.Event {
	out := make([]model.Event, 0, n)
	for i := n; i > 0; i-- {
		out = append(out, model.NameRegistered{
			Meta: model.Meta{BlockNumber: uint64(100 + i), TxHash: common.HexToHash(fmt.Sprintf("0x%x", i))},
			Name: fmt.Sprintf("name-%d", i),
		})
	}
	return out
}

func TestEvaluateNoWallet(t *testing.T) {
	in := connectedInput()
	in.Account.Connected = false
	in.Result = feed.Result{Status: feed.StatusError, Err: errors.New("boom")}

	snap := Evaluate(in)
	require.Equal(t, StateNoWallet, snap.State)
	require.Empty(t, snap.Items)
}

func TestEvaluateWrongNetwork(t *testing.T) {
	in := connectedInput()
	in.Account.ChainID = 1
	in.NetworkName = "Celo Alfajores"
	in.Result = feed.Result{Status: feed.StatusSuccess, Events: events(1)}

	snap := Evaluate(in)
	require.Equal(t, StateWrongNetwork, snap.State)
	require.Contains(t, snap.Message, "Celo Alfajores")
	require.Contains(t, snap.Message, "Chain 1")
	require.Empty(t, snap.Items)
}

func TestEvaluateLoadingBeforeError(t *testing.T) {
	for _, status := range []feed.Status{feed.StatusIdle, feed.StatusLoading} {
		in := connectedInput()
		in.Result = feed.Result{Status: status}
		require.Equal(t, StateLoading, Evaluate(in).State)
	}

	in := connectedInput()
	in.Result = feed.Result{Status: feed.StatusError, Err: errors.New("rpc down")}
	require.Equal(t, StateError, Evaluate(in).State)
}

func TestEvaluateEmpty(t *testing.T) {
	in := connectedInput()
	in.Result = feed.Result{Status: feed.StatusSuccess}
	snap := Evaluate(in)
	require.Equal(t, StateEmpty, snap.State)
	require.Zero(t, snap.Total)
}

func TestEvaluatePopulatedWindow(t *testing.T) {
	in := connectedInput()
	in.Limit = 2
	in.Result = feed.Result{Status: feed.StatusSuccess, Events: events(3)}

	snap := Evaluate(in)
	require.Equal(t, StatePopulated, snap.State)
	require.Len(t, snap.Items, 2)
	require.Equal(t, 3, snap.Total)
	require.Equal(t, 1, snap.Remaining)
	require.Equal(t, uint64(103), snap.Items[0].BlockNumber)
	require.Equal(t, "Block #103", snap.Items[0].When)
	require.Equal(t, "https://alfajores.celoscan.io/tx/"+snap.Items[0].TxHash, snap.Items[0].TxURL)
}

func TestEvaluateDefaultLimit(t *testing.T) {
	in := connectedInput()
	in.Result = feed.Result{Status: feed.StatusSuccess, Events: events(12)}

	snap := Evaluate(in)
	require.Len(t, snap.Items, 10)
	require.Equal(t, 2, snap.Remaining)
}

func TestEvaluateRelativeTime(t *testing.T) {
	now := time.Unix(1700000000, 0)
	ts := uint64(now.Add(-3 * time.Minute).Unix())
	ev := model.NameRegistered{Meta: model.Meta{BlockNumber: 9, Timestamp: &ts}, Name: "alice"}

	in := connectedInput()
	in.Now = now
	in.Result = feed.Result{Status: feed.StatusSuccess, Events: []model.Event{ev}}
	require.Equal(t, "3m ago", Evaluate(in).Items[0].When)
}

func TestRelative(t *testing.T) {
	now := time.Unix(1700000000, 0)
	require.Equal(t, "just now", Relative(now.Add(-10*time.Second), now))
	require.Equal(t, "2h ago", Relative(now.Add(-2*time.Hour), now))
	require.Equal(t, "3d ago", Relative(now.Add(-72*time.Hour), now))
}

func TestSnapshotJSON(t *testing.T) {
	in := connectedInput()
	in.Limit = 1
	in.Result = feed.Result{Status: feed.StatusSuccess, Events: events(2)}

	raw, err := json.Marshal(Evaluate(in))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "populated", decoded["state"])
	require.EqualValues(t, 1, decoded["remaining"])
	require.Len(t, decoded["items"], 1)
}

func TestRenderText(t *testing.T) {
	in := connectedInput()
	in.Limit = 1
	in.Result = feed.Result{Status: feed.StatusSuccess, Events: events(2)}

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, Evaluate(in)))
	out := buf.String()
	require.Contains(t, out, "Recent Activity")
	require.Contains(t, out, "Block #102")
	require.Contains(t, out, "Showing 1 of 2 total activities (1 more available)")
}

func TestRenderTextNonPopulated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, Evaluate(Input{})))
	require.Contains(t, buf.String(), "Connect Your Wallet")
}
