package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zhouzirui/medchat/internal/model/medical"
)

func TestLoadDatasetFallsBackToSeed(t *testing.T) {
	docs := loadDataset(zap.NewNop(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, medical.Seed(), docs)

	bad := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Equal(t, medical.Seed(), loadDataset(zap.NewNop(), bad))
}

func TestLoadDatasetReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: flu\n  title: Flu\n  content: Fever and aches.\n"), 0o644))

	docs := loadDataset(zap.NewNop(), path)
	require.Len(t, docs, 1)
	assert.Equal(t, "Flu", docs[0].Title)
}

func TestRunServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
