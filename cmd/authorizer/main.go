// Command authorizer runs the bearer token authorizer as an AWS Lambda
// function or an HTTP service, or checks a single credential.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
