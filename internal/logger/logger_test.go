package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	log.SetLevel(LevelVerbose)
	assert.Equal(t, LevelVerbose, log.GetLevel())
	log.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	buf.Reset()
	log.SetLevel(LevelOff)
	log.Error("silenced")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelOff, ParseLevel("quiet"))
	assert.Equal(t, LevelVerbose, ParseLevel("Debug"))
	assert.Equal(t, LevelNormal, ParseLevel(""))
	assert.Equal(t, LevelNormal, ParseLevel("whatever"))
}
