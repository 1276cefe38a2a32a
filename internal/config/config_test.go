package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/ehsanranjbar/treeflat/internal/config"
	"github.com/ehsanranjbar/treeflat/tree"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	require.Equal(t, &config.Config{
		MaxDepth:  0,
		Collision: flatten.Overwrite,
		DB:        "treeflat.db",
		Output:    config.OutputTable,
	}, cfg)
	require.Nil(t, cfg.ConvertOptions())
	require.Len(t, cfg.FlattenOptions(), 2)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "treeflat.yaml")
	err := os.WriteFile(file, []byte("max-depth: 8\ncollision: reject\noutput: JSON\nstringify: true\n"), 0o600)
	require.NoError(t, err)

	cfg, err := config.Load(config.New(), file)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.MaxDepth)
	require.Equal(t, flatten.Reject, cfg.Collision)
	require.Equal(t, config.OutputJSON, cfg.Output)
	require.True(t, cfg.Stringify)

	f := flatten.New(cfg.FlattenOptions()...)
	_, err = f.Flatten(tree.NewContainer().
		With("a.b", tree.Scalar("x")).
		With("a", tree.NewContainer().With("b", tree.Scalar("y"))))
	require.ErrorIs(t, err, flatten.ErrCollision)

	_, err = config.Load(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TREEFLAT_MAX_DEPTH", "3")
	t.Setenv("TREEFLAT_DB", "/tmp/docs")
	t.Setenv("TREEFLAT_LOG_FILE", "true")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.MaxDepth)
	require.Equal(t, "/tmp/docs", cfg.DB)
	require.True(t, cfg.LogOptions().LogToFile)
}

func TestLoadFlags(t *testing.T) {
	t.Setenv("TREEFLAT_COLLISION", "reject")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(config.KeyCollision, "overwrite", "")
	fs.Bool(config.KeyDebug, false, "")
	require.NoError(t, fs.Parse([]string{"--debug"}))

	v := config.New()
	require.NoError(t, v.BindPFlags(fs))

	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	require.True(t, cfg.Debug)
	require.True(t, cfg.LogOptions().Verbose)
	// an unchanged flag does not shadow the environment
	require.Equal(t, flatten.Reject, cfg.Collision)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "Collision", key: config.KeyCollision, val: "merge"},
		{name: "Depth", key: config.KeyMaxDepth, val: -1},
		{name: "Output", key: config.KeyOutput, val: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := config.New()
			v.Set(tt.key, tt.val)

			_, err := config.Load(v, "")
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}
