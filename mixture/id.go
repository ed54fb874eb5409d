// SPDX-License-Identifier: MIT

package mixture

import "sync/atomic"

// IDSource hands out run-scoped mixture identifiers. The zero value is ready
// to use and safe for concurrent use.
type IDSource struct {
	next atomic.Int64
}

// Next returns the next identifier, starting at 1.
func (s *IDSource) Next() int64 {
	return s.next.Add(1)
}
