package backend

import (
	"bufio"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dap-decorator/pkg/decerror"
	"dap-decorator/pkg/diag"
)

func TestStartWiresStdioAndWaitReportsCleanExit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := Start(ctx, "sh", []string{"-c", "read line; echo \"got:$line\"; exit 0"}, diag.New("[test] "))
	require.NoError(t, err)

	_, err = p.Stdin.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, p.Stdin.Close())

	line, err := bufio.NewReader(p.Stdout).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "got:hello\n", line)

	assert.NoError(t, p.Wait())
}

func TestWaitReportsBackendCrash(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := Start(ctx, "sh", []string{"-c", "exit 7"}, diag.New("[test] "))
	require.NoError(t, err)

	err = p.Wait()
	assert.ErrorIs(t, err, decerror.ErrBackendCrash)
}
