// Command cowolf-inspect is an operator tool for examining Data-Range
// Map files outside of a live mount: dumping their records, verifying
// their on-disk invariants, and replaying a scatter-gather read against
// a real upper/lower file pair. It stands in for the hosting
// union-filesystem binary, giving the engine a real, runnable caller.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
