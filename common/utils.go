package common

import (
	"runtime"

	"github.com/vishvananda/netns"
)

// WithNetNS runs work with the calling thread switched into ns, restoring
// the original namespace afterwards.
func WithNetNS(ns netns.NsHandle, work func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	oldNs, err := netns.Get()
	if err == nil {
		defer oldNs.Close()

		err = netns.Set(ns)
		if err == nil {
			defer netns.Set(oldNs)

			err = work()
		}
	}

	return err
}

// WithNetNSPath is WithNetNS for a namespace given by its bind-mount path
// (e.g. /var/run/netns/<name>). An empty path runs work in the current namespace.
func WithNetNSPath(path string, work func() error) error {
	if path == "" {
		return work()
	}
	ns, err := netns.GetFromPath(path)
	if err != nil {
		return err
	}
	defer ns.Close()
	return WithNetNS(ns, work)
}
