package log_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelcheck/modelcheck/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "warning alias", input: "warning", want: slog.LevelWarn},
		{name: "error uppercase", input: "ERROR", want: slog.LevelError},
		{name: "unknown", input: "trace", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.input)

			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	got, err := log.GetFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, log.FormatJSON, got)

	_, err = log.GetFormat("xml")
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}

	h, err := log.CreateHandlerWithStrings(buf, "info", "logfmt")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("hello", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "key=value")

	logger.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestCreateHandlerWithStringsInvalid(t *testing.T) {
	t.Parallel()

	_, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, "nope", "text")
	require.ErrorIs(t, err, log.ErrInvalidArgument)

	_, err = log.CreateHandlerWithStrings(&bytes.Buffer{}, "info", "nope")
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	logger := log.WithContext(t.Context())
	assert.NotNil(t, logger)
}
