// Command s3ownership copies bucket ownership controls and custom ACL grants
// from a source bucket to a migrated destination bucket.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(defaultApp()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
