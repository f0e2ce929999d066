package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateDefaultsAreZeroValues(t *testing.T) {
	s := &State{}
	assert.False(t, s.ClientSupportsRunInTerminal())
	assert.False(t, s.ProcessRunning())
	assert.False(t, s.TerminateOnDisconnect())
	assert.Equal(t, "", s.LaunchProgram())
	assert.Nil(t, s.PreTerminateCommands())
	assert.Nil(t, s.ExitCommands())
	assert.Equal(t, ShutdownNone, s.GracefulShutdown().Mode)
}

func TestStateSettersArePublishedToReaders(t *testing.T) {
	s := &State{}

	s.SetClientSupportsRunInTerminal(true)
	s.SetProcessRunning(true)
	s.SetTerminateOnDisconnect(true)
	s.SetLaunchProgram("/bin/a.out")
	s.SetPreTerminateCommands([]string{"break main.main"})
	s.SetExitCommands([]string{"log done"})
	s.SetGracefulShutdown(GracefulShutdown{Mode: ShutdownSignal, Signal: "SIGINT"})

	assert.True(t, s.ClientSupportsRunInTerminal())
	assert.True(t, s.ProcessRunning())
	assert.True(t, s.TerminateOnDisconnect())
	assert.Equal(t, "/bin/a.out", s.LaunchProgram())
	assert.Equal(t, []string{"break main.main"}, s.PreTerminateCommands())
	assert.Equal(t, []string{"log done"}, s.ExitCommands())
	assert.Equal(t, GracefulShutdown{Mode: ShutdownSignal, Signal: "SIGINT"}, s.GracefulShutdown())
}

func TestSetCommandSlicesAreCopiedNotAliased(t *testing.T) {
	s := &State{}
	cmds := []string{"one"}
	s.SetPreTerminateCommands(cmds)
	cmds[0] = "mutated"
	assert.Equal(t, "one", s.PreTerminateCommands()[0])
}
