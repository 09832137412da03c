package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/logger"
)

func withBootstrap(t *testing.T, fn BootstrapFunc) {
	t.Helper()
	SetBootstrap(fn)
	t.Cleanup(func() { SetBootstrap(nil) })
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "assetdeck", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"assets", "selection", "settings", "tui", "mcp", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_BootstrapReceivesFlags(t *testing.T) {
	var got Options
	withBootstrap(t, func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{}, nil
	})

	_, err := executeCommand(t, "--config-dir", "/tmp/cfg", "--data-dir", "/tmp/data", "--storage", "file", "version")

	require.NoError(t, err)
	assert.Equal(t, Options{ConfigDir: "/tmp/cfg", DataDir: "/tmp/data", Storage: domain.StorageBackendFile}, got)
}

func TestRootCmd_InvalidStorage(t *testing.T) {
	called := false
	withBootstrap(t, func(context.Context, Options) (*Services, error) {
		called = true
		return &Services{}, nil
	})

	_, err := executeCommand(t, "--storage", "postgres", "version")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.False(t, called)
}

func TestRootCmd_BootstrapError(t *testing.T) {
	boom := errors.New("cannot open database")
	withBootstrap(t, func(context.Context, Options) (*Services, error) {
		return nil, boom
	})

	_, err := executeCommand(t, "version")

	assert.ErrorIs(t, err, boom)
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	t.Cleanup(func() { logger.SetVerbose(false) })

	_, err := executeCommand(t, "-v", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestExecute_ClosesServices(t *testing.T) {
	closed := 0
	withBootstrap(t, func(context.Context, Options) (*Services, error) {
		return &Services{Close: func() error {
			closed++
			return nil
		}}, nil
	})
	t.Cleanup(func() { SetServices(nil) })

	resetFlags()
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, Execute())
	assert.Equal(t, 1, closed)
	assert.Nil(t, closer)
}

func TestSetVersion(t *testing.T) {
	original := version
	t.Cleanup(func() { version = original })

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestCommands_WithoutServices(t *testing.T) {
	SetServices(nil)

	tests := []struct {
		args []string
		want error
	}{
		{[]string{"assets", "list"}, errNoAssets},
		{[]string{"assets", "show", "bitcoin"}, errNoAssets},
		{[]string{"selection", "list"}, errNoSelection},
		{[]string{"selection", "toggle", "bitcoin"}, errNoSelection},
		{[]string{"selection", "contains", "bitcoin"}, errNoSelection},
		{[]string{"settings", "show"}, errNoSettings},
		{[]string{"settings", "set", "feed.limit", "5"}, errNoSettings},
		{[]string{"settings", "check"}, errNoSettings},
	}

	for _, tt := range tests {
		t.Run(tt.args[0]+" "+tt.args[1], func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
