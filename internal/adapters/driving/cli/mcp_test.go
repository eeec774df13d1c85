package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/shiftmap/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	if assert.NotNil(t, port) {
		assert.Equal(t, "0", port.DefValue)
		assert.Equal(t, "p", port.Shorthand)
	}
	host := mcpServeCmd.Flags().Lookup("host")
	if assert.NotNil(t, host) {
		assert.Equal(t, "127.0.0.1", host.DefValue)
	}
}

func TestMCPServeCmd_RequiresServices(t *testing.T) {
	SetServices(nil)

	_, err := run(t, "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingCategoryService)
}

func TestMCPServeCmd_RejectsArgs(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "mcp", "serve", "extra")

	assert.Error(t, err)
}

func TestMCPServeCmd_BadPort(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "mcp", "serve", "--port", "99999")

	assert.ErrorContains(t, err, "listening on")
}
