package concurrency

import (
	"fmt"

	"github.com/momentics/hioload-rt/api"
)

// recoverError runs fn and returns the error it panicked with, if any.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}

func ready(*api.Context) api.Poll { return api.Ready }
