package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ehsanranjbar/treeflat/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	f := &logger.Formatter{DisableColor: true, HideLogTime: true}
	entry := &logrus.Entry{
		Level:   logrus.WarnLevel,
		Message: "flattened key overwritten",
		Data:    logrus.Fields{"key": "a.b", "current": "a.b"},
		Time:    time.Now(),
	}

	bz, err := f.Format(entry)
	require.NoError(t, err)
	require.Equal(t, "[WARNING] flattened key overwritten current=a.b key=a.b\n", string(bz))

	f = &logger.Formatter{DisableColor: true, TimestampFormat: "2006"}
	entry.Time = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entry.Data = nil
	bz, err = f.Format(entry)
	require.NoError(t, err)
	require.Equal(t, "2024 [WARNING] flattened key overwritten\n", string(bz))

	f = &logger.Formatter{HideLogTime: true}
	bz, err = f.Format(entry)
	require.NoError(t, err)
	require.Equal(t, "\033[33m[WARNING] flattened key overwritten\033[0m\n", string(bz))
}

func TestConfigure(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	err := logger.Configure(l, logger.LogOptions{DisableColor: true})
	require.NoError(t, err)
	require.Equal(t, logrus.InfoLevel, l.GetLevel())

	l.Debug("hidden")
	require.Empty(t, buf.String())

	err = logger.Configure(l, logger.LogOptions{Verbose: true, DisableColor: true})
	require.NoError(t, err)
	l.Debug("shown")
	require.Contains(t, buf.String(), "[DEBUG] shown")
}

func TestFileHook(t *testing.T) {
	dir := t.TempDir()

	l := logrus.New()
	l.SetOutput(&bytes.Buffer{})
	err := logger.Configure(l, logger.LogOptions{LogToFile: true, OutputPath: dir})
	require.NoError(t, err)

	l.WithField("keys", 4).Info("document stored")

	files, err := filepath.Glob(filepath.Join(dir, logger.FileName+".*"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	bz, err := os.ReadFile(files[0])
	require.NoError(t, err)
	require.Contains(t, string(bz), `msg="document stored"`)
	require.Contains(t, string(bz), "keys=4")
}
