// SPDX-License-Identifier: Apache-2.0

package arena

import "sync"

// nopLocker satisfies sync.Locker without doing anything. It is selected by
// WithoutLocking for arenas that are only touched from one goroutine.
type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

var _ sync.Locker = nopLocker{}
