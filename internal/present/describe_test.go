package present

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"activityScope/internal/model"
)

func TestTruncateProse(t *testing.T) {
	long := strings.Repeat("a", 60)
	require.Equal(t, strings.Repeat("a", 50)+"...", Prose(long))

	short := strings.Repeat("b", 30)
	require.Equal(t, short, Prose(short))

	exact := strings.Repeat("c", 50)
	require.Equal(t, exact, Prose(exact))
}

func TestTruncateCode(t *testing.T) {
	require.Equal(t, "averyveryverylongnam...", Code("averyveryverylongname.eth"))
	require.Equal(t, "alice.eth", Code("alice.eth"))
}

func TestTruncateMultibyte(t *testing.T) {
	s := strings.Repeat("é", 25)
	require.Equal(t, strings.Repeat("é", 20)+"...", Code(s))
}

func TestShortAddressAndHash(t *testing.T) {
	require.Equal(t, "0xd3d8...f177", ShortAddress("0xd3d8ec48ba24fadeab6a15a216fc8154bde2f177"))
	require.Equal(t, "0x12", ShortAddress("0x12"))
	require.Equal(t, "0xabcdef01...", ShortHash("0xabcdef0123456789"))
	require.Equal(t, "0xab", ShortHash("0xab"))
}

func TestTxURL(t *testing.T) {
	require.Equal(t, "https://alfajores.celoscan.io/tx/0xabc", TxURL("alfajores.celoscan.io", "0xabc"))
	require.Equal(t, "https://alfajores.celoscan.io/tx/0xabc", TxURL("https://alfajores.celoscan.io/", "0xabc"))
}

func TestDescribeProposalCreatedTruncates(t *testing.T) {
	desc := strings.Repeat("x", 60)
	ev := model.ProposalCreated{ID: big.NewInt(1), Description: desc, Deadline: big.NewInt(2)}

	p := Describe(ev)
	require.Equal(t, `New proposal created: "`+strings.Repeat("x", 50)+`..."`, p.Description)
	require.Equal(t, IconProposalCreated, p.Icon)
	require.Equal(t, ColorBlue, p.Color)
	require.Equal(t, desc, ev.Description)
}

func TestDescribeVoteColors(t *testing.T) {
	cases := map[model.ProposalState]string{
		model.ProposalApproved: ColorGreen,
		model.ProposalRejected: ColorRed,
		model.ProposalPending:  ColorYellow,
	}
	for state, color := range cases {
		p := Describe(model.Voted{ID: big.NewInt(4), State: state})
		require.Equal(t, color, p.Color)
		require.Equal(t, "Vote cast ("+state.String()+") on proposal #4", p.Description)
	}
}

func TestDescribeNameTransferred(t *testing.T) {
	p := Describe(model.NameTransferred{
		Name:     "alice",
		OldOwner: common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		NewOwner: common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
	})
	require.Equal(t, "name alice transferred from 0xaaaa...aaaa to 0xbbbb...bbbb", strings.ToLower(p.Description))
	require.Equal(t, IconNameTransferred, p.Icon)
}

func TestDescribeEveryKindHasMapping(t *testing.T) {
	events := map[model.Kind]model.Event{
		model.KindProposalCreated:   model.ProposalCreated{},
		model.KindProposalFulfilled: model.ProposalFulfilled{},
		model.KindVoted:             model.Voted{},
		model.KindNameRegistered:    model.NameRegistered{},
		model.KindNameTransferred:   model.NameTransferred{},
		model.KindNameUpdated:       model.NameUpdated{},
	}
	for _, kind := range model.AllKinds {
		ev, ok := events[kind]
		require.True(t, ok, "no sample for %s", kind)
		require.NotEqual(t, Unknown, Describe(ev), "kind %s falls through to default", kind)
	}
}

func TestDescribeDefault(t *testing.T) {
	require.Equal(t, Unknown, Describe(nil))
}
