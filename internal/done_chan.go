package internal

import "sync"

// DoneChan is closed once whatever it signals for has finished.
type DoneChan chan struct{}

// DoneFunc begins a shutdown and returns a channel closed on completion.
type DoneFunc func() DoneChan

// WrapWaitGroup returns a DoneChan that closes once wg.Wait returns.
func WrapWaitGroup(wg *sync.WaitGroup) DoneChan {
	ret := make(DoneChan)
	go func() {
		wg.Wait()
		close(ret)
	}()
	return ret
}
