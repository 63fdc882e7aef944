package common_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamainow/routes/common"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "", common.ErrorMessages(nil))
	assert.Equal(t, "one\ntwo", common.ErrorMessages([]error{fmt.Errorf("one"), fmt.Errorf("two")}))
}

func TestAssert(t *testing.T) {
	assert.NotPanics(t, func() { common.Assert(true) })
	assert.Panics(t, func() { common.Assert(false) })
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogOutput(&buf)
	defer common.SetLogOutput(os.Stderr)
	defer common.SetLogLevel("info")

	require.NoError(t, common.SetLogLevel("warning"))
	common.Log.Info("hidden")
	common.Log.WithField("subnet", "10.0.0.0/8").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN: ")
	assert.Contains(t, buf.String(), "subnet=10.0.0.0/8")

	require.Error(t, common.SetLogLevel("loud"))
}

func TestWithNetNSPathEmpty(t *testing.T) {
	called := false
	require.NoError(t, common.WithNetNSPath("", func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestSignalContext(t *testing.T) {
	ctx, stop := common.SignalContext(context.Background())
	defer stop()
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}
