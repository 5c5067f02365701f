//go:build unix

package narrator

import (
	"os"
	"syscall"
)

func suspend(p *os.Process) bool {
	return p.Signal(syscall.SIGSTOP) == nil
}

func resume(p *os.Process) bool {
	return p.Signal(syscall.SIGCONT) == nil
}
