package view

import (
	"fmt"
	"time"

	"activityScope/internal/activity"
	"activityScope/internal/feed"
	"activityScope/internal/model"
	"activityScope/internal/present"
	"activityScope/internal/wallet"
)

// State is what the activity view shows.
type State string

const (
	StateNoWallet     State = "no_wallet"
	StateWrongNetwork State = "wrong_network"
	StateLoading      State = "loading"
	StateError        State = "error"
	StateEmpty        State = "empty"
	StatePopulated    State = "populated"
)

// DefaultExplorerHost is the Celo Alfajores block explorer.
const DefaultExplorerHost = "alfajores.celoscan.io"

// Input is everything the view is derived from.
type Input struct {
	Account         wallet.Account
	RequiredChainID uint64
	NetworkName     string
	Result          feed.Result
	Limit           int
	ExplorerHost    string
	Now             time.Time
}

// Item is one displayed event.
type Item struct {
	Kind         string               `json:"kind"`
	Presentation present.Presentation `json:"presentation"`
	BlockNumber  uint64               `json:"blockNumber"`
	LogIndex     uint                 `json:"logIndex"`
	TxHash       string               `json:"txHash"`
	TxURL        string               `json:"txUrl"`
	Timestamp    *uint64              `json:"timestamp,omitempty"`
	When         string               `json:"when"`
}

// Snapshot is the rendered view, ready for text or JSON output.
type Snapshot struct {
	State     State      `json:"state"`
	Title     string     `json:"title"`
	Message   string     `json:"message,omitempty"`
	ChainID   uint64     `json:"chainId,omitempty"`
	Items     []Item     `json:"items,omitempty"`
	Total     int        `json:"total"`
	Remaining int        `json:"remaining"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Evaluate derives the view from the wallet connection and the query state.
// States are checked in order: no wallet, wrong network, loading, error,
// empty, populated.
func Evaluate(in Input) Snapshot {
	if !in.Account.Connected {
		return Snapshot{
			State:   StateNoWallet,
			Title:   "Connect Your Wallet",
			Message: "Connect your wallet to view recent activities and transactions.",
		}
	}

	if in.Account.ChainID != in.RequiredChainID {
		network := in.NetworkName
		if network == "" {
			network = fmt.Sprintf("chain %d", in.RequiredChainID)
		}
		current := "Unknown"
		if in.Account.ChainID != 0 {
			current = fmt.Sprintf("Chain %d", in.Account.ChainID)
		}
		return Snapshot{
			State:   StateWrongNetwork,
			Title:   "Wrong Network",
			Message: fmt.Sprintf("Please switch to the %s network to view recent activities. Current: %s", network, current),
			ChainID: in.Account.ChainID,
		}
	}

	switch in.Result.Status {
	case feed.StatusIdle, feed.StatusLoading:
		return Snapshot{State: StateLoading, Title: "Loading", ChainID: in.Account.ChainID}
	case feed.StatusError:
		return Snapshot{
			State:   StateError,
			Title:   "Failed to Load",
			Message: "Unable to fetch recent activities. Please check your connection and try refreshing.",
			ChainID: in.Account.ChainID,
		}
	}

	updated := in.Result.UpdatedAt
	snap := Snapshot{ChainID: in.Account.ChainID, UpdatedAt: &updated}
	if len(in.Result.Events) == 0 {
		snap.State = StateEmpty
		snap.Title = "No Recent Activity"
		snap.Message = "No recent activities found. Activities will appear here once transactions are made."
		return snap
	}

	host := in.ExplorerHost
	if host == "" {
		host = DefaultExplorerHost
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	window := activity.NewWindow(in.Result.Events, in.Limit)
	snap.State = StatePopulated
	snap.Title = "Recent Activity"
	snap.Total = window.Total
	snap.Remaining = window.Remaining
	snap.Items = make([]Item, 0, len(window.Events))
	for _, ev := range window.Events {
		snap.Items = append(snap.Items, newItem(ev, host, now))
	}
	return snap
}

func newItem(ev model.Event, host string, now time.Time) Item {
	meta := ev.Metadata()
	hash := meta.TxHash.Hex()
	return Item{
		Kind:         string(ev.Kind()),
		Presentation: present.Describe(ev),
		BlockNumber:  meta.BlockNumber,
		LogIndex:     meta.LogIndex,
		TxHash:       hash,
		TxURL:        present.TxURL(host, hash),
		Timestamp:    meta.Timestamp,
		When:         When(meta, now),
	}
}

// When is the relative time of an event, or its block number when the
// timestamp is unknown.
func When(meta model.Meta, now time.Time) string {
	if meta.Timestamp == nil {
		return fmt.Sprintf("Block #%d", meta.BlockNumber)
	}
	return Relative(time.Unix(int64(*meta.Timestamp), 0), now)
}

// Relative formats t relative to now, e.g. "3m ago".
func Relative(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
