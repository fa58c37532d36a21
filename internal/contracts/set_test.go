package contracts

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"activityScope/internal/model"
)

func TestNewSetDAO(t *testing.T) {
	set, err := NewSet("DAO", common.HexToAddress(DefaultDAOAddress))
	require.NoError(t, err)
	require.Equal(t, SetDAO, set.Name)
	require.Len(t, set.Signatures, 3)

	want := crypto.Keccak256Hash([]byte("Voted(uint256,address,uint8,string)"))
	sig, ok := set.ByTopic0(want)
	require.True(t, ok)
	require.Equal(t, model.KindVoted, sig.Kind)
}

func TestNewSetNameService(t *testing.T) {
	set, err := NewSet(SetNameService, common.HexToAddress("0x1111111111111111111111111111111111111111"))
	require.NoError(t, err)

	want := crypto.Keccak256Hash([]byte("NameTransferred(string,address,address)"))
	sig, ok := set.ByTopic0(want)
	require.True(t, ok)
	require.Equal(t, model.KindNameTransferred, sig.Kind)

	_, ok = set.ABI.Methods["transferName"]
	require.True(t, ok)
}

func TestNewSetErrors(t *testing.T) {
	_, err := NewSet("governor", common.HexToAddress(DefaultDAOAddress))
	require.Error(t, err)

	_, err = NewSet(SetDAO, common.Address{})
	require.Error(t, err)
}

func TestSignatureSetsCoverAllKinds(t *testing.T) {
	seen := map[model.Kind]bool{}
	for _, name := range []string{SetDAO, SetNameService} {
		set, err := NewSet(name, common.HexToAddress("0x1111111111111111111111111111111111111111"))
		require.NoError(t, err)
		for _, sig := range set.Signatures {
			seen[sig.Kind] = true
		}
	}
	for _, kind := range model.AllKinds {
		require.True(t, seen[kind], kind)
	}
}
