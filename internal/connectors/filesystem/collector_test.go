package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

const tomlInventory = `
[[resources]]
id = "i-1"
type = "ec2-instance"
region = "us-east-1"
name = "web-01"
category = "new"
tags = { env = "prod", team = "web" }

[[resources]]
id = "vol-1"
type = "ebs-volume"
region = "eu-west-1"
`

const jsonInventory = `[
  {"resourceId": "i-1", "resourceType": "ec2-instance", "region": "us-east-1", "name": "web-01", "tags": {"env": "prod"}},
  {"resourceId": "i-2", "resourceType": "ec2-instance", "region": "us-west-2", "name": "web-02", "category": "old"}
]`

func writeInventory(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCollector_Name(t *testing.T) {
	c := New("/tmp/inventory.json")
	assert.Equal(t, "file", c.Name())
	assert.Equal(t, "/tmp/inventory.json", c.Path())
}

func TestCollector_ListResources_TOML(t *testing.T) {
	c := New(writeInventory(t, "inventory.toml", tomlInventory))

	resources, err := c.ListResources(context.Background(), domain.ResourceFilter{})
	require.NoError(t, err)
	require.Len(t, resources, 2)

	assert.Equal(t, "i-1", resources[0].ID)
	assert.Equal(t, "ec2-instance", resources[0].Type)
	assert.Equal(t, "web-01", resources[0].Name)
	assert.Equal(t, map[string]string{"env": "prod", "team": "web"}, resources[0].Tags)
	assert.Empty(t, resources[0].Category, "categories in the file are ignored")
	assert.Equal(t, "eu-west-1", resources[1].Region)
}

func TestCollector_ListResources_JSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "array", content: jsonInventory},
		{name: "object", content: `{"resources": ` + jsonInventory + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(writeInventory(t, "inventory.json", tt.content))

			resources, err := c.ListResources(context.Background(), domain.ResourceFilter{})
			require.NoError(t, err)
			require.Len(t, resources, 2)
			assert.Equal(t, "i-1", resources[0].ID)
			assert.Equal(t, "us-west-2", resources[1].Region)
			assert.Empty(t, resources[1].Category)
		})
	}
}

func TestCollector_ListResources_Filter(t *testing.T) {
	c := New(writeInventory(t, "inventory.json", jsonInventory))

	resources, err := c.ListResources(context.Background(), domain.ResourceFilter{Region: "us-west-2"})
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "i-2", resources[0].ID)

	resources, err = c.ListResources(context.Background(), domain.ResourceFilter{Search: "WEB-01"})
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "i-1", resources[0].ID)
}

func TestCollector_ListResources_EmptyFile(t *testing.T) {
	c := New(writeInventory(t, "inventory.json", "  \n"))

	resources, err := c.ListResources(context.Background(), domain.ResourceFilter{})
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestCollector_ListResources_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		c := New(filepath.Join(t.TempDir(), "absent.json"))
		_, err := c.ListResources(context.Background(), domain.ResourceFilter{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed json", func(t *testing.T) {
		c := New(writeInventory(t, "inventory.json", "[{"))
		_, err := c.ListResources(context.Background(), domain.ResourceFilter{})
		assert.ErrorContains(t, err, "parsing inventory file")
	})

	t.Run("malformed toml", func(t *testing.T) {
		c := New(writeInventory(t, "inventory.toml", "[[resources]\nid ="))
		_, err := c.ListResources(context.Background(), domain.ResourceFilter{})
		assert.ErrorContains(t, err, "parsing inventory file")
	})

	t.Run("duplicate ids", func(t *testing.T) {
		c := New(writeInventory(t, "inventory.json", `[{"resourceId":"i-1"},{"resourceId":"i-1"}]`))
		_, err := c.ListResources(context.Background(), domain.ResourceFilter{})
		assert.ErrorContains(t, err, `duplicate resource id "i-1"`)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := New(writeInventory(t, "inventory.json", jsonInventory))
		_, err := c.ListResources(ctx, domain.ResourceFilter{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCollector_ResourceByID(t *testing.T) {
	c := New(writeInventory(t, "inventory.toml", tomlInventory))

	r, err := c.ResourceByID(context.Background(), "vol-1")
	require.NoError(t, err)
	assert.Equal(t, "ebs-volume", r.Type)

	_, err = c.ResourceByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollector_Watch(t *testing.T) {
	path := writeInventory(t, "inventory.json", jsonInventory)
	c := New(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	changed := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, 100*time.Millisecond, func() {
			calls.Add(1)
			changed <- struct{}{}
		})
	}()

	// Give the watcher time to register
	time.Sleep(50 * time.Millisecond)

	// Unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte("[]"), 0600))

	// A burst of writes is coalesced
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(jsonInventory), 0600))
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for inventory change")
	}

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestCollector_Watch_MissingDirectory(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "absent", "inventory.json"))

	err := c.Watch(context.Background(), 0, func() {})
	assert.ErrorContains(t, err, "watching")
}

func TestRelevant(t *testing.T) {
	target := "/data/inventory.json"

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: target, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: target, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: "/data/other.json", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event, target))
		})
	}
}
