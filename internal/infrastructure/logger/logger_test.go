package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmicodes/catalog/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			l, err := New(config.LoggerConfig{Level: "debug", Format: format, Output: "stdout"})
			require.NoError(t, err)
			assert.NotNil(t, l.WithComponent("test").WithRequestID("abc"))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
