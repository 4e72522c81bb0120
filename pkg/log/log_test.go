package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel(""))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warn"))
	assert.Equal(t, logrus.DebugLevel, parseLevel("loud"))
}

func TestTraceID(t *testing.T) {
	assert.Equal(t, "req-1", TraceID(Fields{RequestIDKey: "req-1"}))
	assert.NotEqual(t, "unknown", TraceID(Fields{RequestIDKey: "unknown"}))
	assert.Len(t, TraceID(nil), 36)
}
