package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"activityScope/internal/model"
)

func readLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var out []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		out = append(out, line)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestJsonlPutEventsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "events.jsonl")
	store := NewJsonlStorage(path)

	rec := model.EventRecord{
		ChainID:     44787,
		Contract:    "0x1111111111111111111111111111111111111111",
		Kind:        model.KindNameRegistered,
		BlockNumber: 100,
		TxHash:      "0x01",
		LogIndex:    2,
		Decoded:     model.NameRegisteredData{Name: "alice"},
	}
	require.NoError(t, store.PutEvents([]model.EventRecord{rec}))
	require.NoError(t, store.PutEvents([]model.EventRecord{rec, rec}))

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	require.Equal(t, "NameRegistered", lines[0]["kind"])
	require.EqualValues(t, 100, lines[0]["block_number"])
	require.Equal(t, "alice", lines[0]["decoded"].(map[string]interface{})["name"])
}

func TestJsonlEmptyBatchWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, NewJsonlStorage(path).PutEvents(nil))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestJsonlPutDecodeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.jsonl")
	store := NewJsonlStorage(path)
	require.NoError(t, store.PutDecodeErrors([]model.DecodeError{{
		ChainID: 44787, BlockNumber: 9, TxHash: "0x02", Kind: "Voted", Error: "missing field",
	}}))

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	require.Equal(t, "Voted", lines[0]["kind"])
}
