package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStoreRequiresDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	require.Error(t, err)
}

func TestStateName(t *testing.T) {
	require.Equal(t, "activity:44787:0xabc", StateName(44787, "0xabc"))
}

func TestSchemaKeys(t *testing.T) {
	require.Contains(t, Schema, "PRIMARY KEY (chain_id, contract, tx_hash, log_index)")
	require.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS export_state")
}
