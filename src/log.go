package ccsds

/*------------------------------------------------------------------
 *
 * Purpose:	Logging shared by the encoder, decoder and utilities.
 *
 * Description:	Each encoder / decoder owns a *log.Logger.  "verbose"
 *		lowers it to debug level so state transitions, per block
 *		RS results and counters show up.  "printing" adds a hex
 *		dump of every codeword, also at debug level.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger is what the command line programs and the defaults use.
func NewLogger(w io.Writer, prefix string, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	var logger = log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	logger.SetLevel(IfThenElse(verbose, log.DebugLevel, log.InfoLevel))

	return logger
}

// DiscardLogger is handy for tests and for embedding without output.
func DiscardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// hexDump renders p 16 bytes per line with offset and printable ASCII.
func hexDump(p []byte) string {
	var sb strings.Builder
	var offset = 0

	for len(p) > 0 {
		var n = min(len(p), 16)

		fmt.Fprintf(&sb, "  %03x: ", offset)
		for i := range n {
			fmt.Fprintf(&sb, " %02x", p[i])
		}
		for i := n; i < 16; i++ {
			sb.WriteString("   ")
		}
		sb.WriteString("  ")
		for i := range n {
			if p[i] >= 0x20 && p[i] <= 0x7E {
				sb.WriteByte(p[i])
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')

		p = p[n:]
		offset += n
	}

	return sb.String()
}
