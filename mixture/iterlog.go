// SPDX-License-Identifier: MIT

package mixture

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// logIteration appends one line to Options.LogSink:
//
//	<iter>\t<msglen>\t<nll>{\t<k>\t<n_k>\t<w_k>\t<params>}
//
// A failed write is logged and does not stop EM.
func (m *Mixture) logIteration(iter int) {
	if m.opts.LogSink == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d\t%.6f\t%.6f", iter, m.msglen, m.nll)
	for j, c := range m.components {
		fmt.Fprintf(&b, "\t%d\t%.3f\t%.5f\t%s", j+1, m.sampleSize[j], m.weights[j], c.String())
	}
	b.WriteByte('\n')
	if _, err := m.opts.LogSink.Write([]byte(b.String())); err != nil {
		m.opts.Logger.WithFields(logrus.Fields{
			"action":     "em_iteration_log",
			"mixture_id": m.id,
		}).WithError(err).Warn("could not write iteration log")
	}
}
