package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// IsRunningInOtherProcess returns true if the pid file at pathToFile
// contains the pid of another process that is still alive. A pid file
// left behind by a crashed run does not count.
func IsRunningInOtherProcess(pathToFile string) bool {
	if FileExists(pathToFile) {
		pid := ReadPidFile(pathToFile)
		return pid != 0 && pid != os.Getpid() && ProcessIsRunning(pid)
	}
	return false
}

// ReadPidFile returns the pid from the speficied file.
func ReadPidFile(pathToFile string) int {
	if data, err := os.ReadFile(pathToFile); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil {
			return pid
		}
	}
	return 0
}

// WritePidFile writes this process' pid to the specified file.
func WritePidFile(pathToFile string) error {
	pidStr := strconv.Itoa(os.Getpid())
	return os.WriteFile(pathToFile, []byte(pidStr), 0664)
}

// DeletePidFile deletes the specified pid file, if it belongs to
// this process.
func DeletePidFile(pathToFile string) error {
	if ReadPidFile(pathToFile) == os.Getpid() {
		return os.Remove(pathToFile)
	}
	return fmt.Errorf("Pid file %s does not belong to this process", pathToFile)
}

// AcquirePidFile writes our pid to pathToFile unless a live process
// already holds it. The returned function releases the file.
func AcquirePidFile(pathToFile string) (func() error, error) {
	if IsRunningInOtherProcess(pathToFile) {
		return nil, fmt.Errorf("process %d is already exporting into this directory (see %s)",
			ReadPidFile(pathToFile), pathToFile)
	}
	if err := WritePidFile(pathToFile); err != nil {
		return nil, err
	}
	return func() error { return DeletePidFile(pathToFile) }, nil
}

// ProcessIsRunning returns true if the process with pid is running.
// This uses go-ps internally because golang's os.FindProcess always
// returns a process on *nix, even when no process with that pid is
// running.
func ProcessIsRunning(pid int) bool {
	proc, _ := ps.FindProcess(pid)
	return proc != nil
}
