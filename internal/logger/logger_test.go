package logger

import (
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_RedirectsStdLogWithoutPrefix(t *testing.T) {
	flags, prefix, out := log.Flags(), log.Prefix(), log.Writer()
	t.Cleanup(func() {
		log.SetFlags(flags)
		log.SetPrefix(prefix)
		log.SetOutput(out)
	})
	log.SetFlags(log.LstdFlags)
	log.SetPrefix("app: ")

	for _, production := range []bool{false, true} {
		l := New(production)
		assert.NotNil(t, l)
		assert.Same(t, l, zap.L())
		// zap stamps the time itself, so the std logger must not add its own
		assert.Equal(t, 0, log.Flags())
		assert.Equal(t, "", log.Prefix())
	}
}

func TestNew_Levels(t *testing.T) {
	assert.True(t, New(false).Core().Enabled(zap.DebugLevel))
	assert.False(t, New(true).Core().Enabled(zap.DebugLevel))
	assert.True(t, New(true).Core().Enabled(zap.InfoLevel))
}
