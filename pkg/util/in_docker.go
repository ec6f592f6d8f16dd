// Package util holds small helpers that don't belong anywhere else
package util

import (
	"bytes"
	"os"
)

// IsRunningInDocker reports whether the process runs inside a container
func IsRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	b, err := os.ReadFile("/proc/1/cgroup")
	if err != nil {
		return false
	}

	return bytes.Contains(b, []byte("docker")) || bytes.Contains(b, []byte("containerd"))
}
