package cron

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{zerolog.New(&buf).Level(zerolog.DebugLevel)}

	l.Info("tick", "entry", 1)
	l.Error(errors.New("bar"), "job failed")

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"entry":1`)
	assert.Contains(t, out, `"error":"bar"`)
	assert.Contains(t, out, `"message":"job failed"`)
}

func TestSchedulerAddRemove(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	id, err := s.AddFunc("@daily", func() {})
	require.NoError(t, err)
	s.Remove(id)

	_, err = s.AddFunc("not a spec", func() {})
	assert.Error(t, err)
}
