// Command pagesim translates a list of logical addresses against a backing
// store and reports the values read and the TLB and page-fault statistics.
package main

import "github.com/sarchlab/pagesim/cmd/pagesim/cmd"

func main() {
	cmd.Execute()
}
