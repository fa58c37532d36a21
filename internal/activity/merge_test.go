package activity

import (
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"activityScope/internal/model"
)

func meta(block uint64, index uint, tx string) model.Meta {
	return model.Meta{BlockNumber: block, LogIndex: index, TxHash: common.HexToHash(tx)}
}

func exampleLists() ([]model.Event, []model.Event, []model.Event) {
	registered := []model.Event{model.NameRegistered{Meta: meta(100, 2, "0x01"), Name: "alice"}}
	updated := []model.Event{model.NameUpdated{Meta: meta(100, 0, "0x01"), Name: "alice"}}
	transferred := []model.Event{model.NameTransferred{Meta: meta(99, 5, "0x02"), Name: "bob"}}
	return registered, updated, transferred
}

func position(ev model.Event) (uint64, uint) {
	m := ev.Metadata()
	return m.BlockNumber, m.LogIndex
}

func TestMergeOrdersMostRecentFirst(t *testing.T) {
	registered, updated, transferred := exampleLists()

	merged := Merge(transferred, updated, registered)
	require.Len(t, merged, 3)

	got := make([][2]uint64, 0, len(merged))
	for _, ev := range merged {
		b, i := position(ev)
		got = append(got, [2]uint64{b, uint64(i)})
	}
	require.Equal(t, [][2]uint64{{100, 2}, {100, 0}, {99, 5}}, got)
	require.Equal(t, model.KindNameRegistered, merged[0].Kind())
}

func TestMergeAdjacentPairsOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	lists := make([][]model.Event, 3)
	total := 0
	for k := range lists {
		for i := 0; i < 50; i++ {
			// ascending per list, as eth_getLogs returns them
			m := model.Meta{
				BlockNumber: uint64(i * 3),
				LogIndex:    uint(rng.Intn(20)),
				TxHash:      common.BigToHash(common.Big1),
			}
			m.TxHash[0] = byte(k)
			m.TxHash[1] = byte(i)
			lists[k] = append(lists[k], model.Voted{Meta: m})
			total++
		}
	}

	merged := Merge(lists...)
	require.Len(t, merged, total)
	for i := 1; i < len(merged); i++ {
		ab, ai := position(merged[i-1])
		bb, bi := position(merged[i])
		require.True(t, ab > bb || (ab == bb && ai >= bi), "pair %d out of order", i)
	}
}

func TestMergeKeepsEveryInputOnce(t *testing.T) {
	registered, updated, transferred := exampleLists()
	merged := Merge(registered, updated, transferred)

	keys := map[model.EventKey]int{}
	for _, ev := range merged {
		keys[ev.Metadata().Key()]++
	}
	for _, list := range [][]model.Event{registered, updated, transferred} {
		for _, ev := range list {
			require.Equal(t, 1, keys[ev.Metadata().Key()])
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	registered, updated, transferred := exampleLists()
	once := Merge(registered, updated, transferred)
	twice := Merge(once, once)
	require.Equal(t, once, twice)
}

func TestMergeDeterministicTieBreak(t *testing.T) {
	a := model.Voted{Meta: meta(5, 1, "0x0a")}
	b := model.Voted{Meta: meta(5, 1, "0x0b")}

	require.Equal(t, Merge([]model.Event{a, b}), Merge([]model.Event{b}, []model.Event{a}))
}

func TestMergeEmpty(t *testing.T) {
	require.Empty(t, Merge())
	require.Empty(t, Merge(nil, []model.Event{}))
}

func TestWindow(t *testing.T) {
	registered, updated, transferred := exampleLists()
	seq := Merge(registered, updated, transferred)

	w := NewWindow(seq, 2)
	require.Len(t, w.Events, 2)
	require.Equal(t, 1, w.Remaining)
	require.Equal(t, 3, w.Total)
	require.True(t, w.Truncated())
	require.Equal(t, seq[:2], w.Events)

	w = NewWindow(seq, 3)
	require.Len(t, w.Events, 3)
	require.Zero(t, w.Remaining)
	require.False(t, w.Truncated())

	w = NewWindow(seq, 0)
	require.Len(t, w.Events, 3)
	require.Zero(t, w.Remaining)
}

func TestWindowDefaultLimit(t *testing.T) {
	seq := make([]model.Event, 0, 15)
	for i := 0; i < 15; i++ {
		seq = append(seq, model.Voted{Meta: meta(uint64(100-i), 0, "0x01")})
	}
	w := NewWindow(seq, -1)
	require.Len(t, w.Events, DefaultLimit)
	require.Equal(t, 5, w.Remaining)
}
