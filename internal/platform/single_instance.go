package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	minPort = 20000
	maxPort = 39999

	activateTimeout = time.Second
)

// InstanceGuard holds the single-instance lock. While held it accepts
// activation pings from later launches.
type InstanceGuard struct {
	listener net.Listener
	address  string
	once     sync.Once
}

// AcquireSingleInstance binds a localhost port derived from appName. If
// another instance holds it, that instance is pinged to bring its window
// forward and ErrAlreadyRunning is returned.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if conn, dialErr := net.DialTimeout("tcp", address, activateTimeout); dialErr == nil {
			_ = conn.Close()
		}
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// OnActivate calls handler for every later launch until Release. It
// returns immediately; handler runs on the accept goroutine.
func (guard *InstanceGuard) OnActivate(handler func()) {
	if guard == nil || guard.listener == nil || handler == nil {
		return
	}
	guard.once.Do(func() {
		go func() {
			for {
				conn, err := guard.listener.Accept()
				if err != nil {
					return
				}
				_ = conn.Close()
				handler()
			}
		}()
	})
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func portFromName(appName string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
