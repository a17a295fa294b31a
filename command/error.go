package command

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/nrao/yoink/log"
	"github.com/nrao/yoink/yokerr"
)

// printError logs err's type and full text at debug level, then a one-line
// summary at error level, unwrapping an aggregated *multierror.Error into
// one error line per underlying error.
func printError(operation string, err error) {
	log.Debug(log.DebugMessage{Operation: operation, Detail: fmt.Sprintf("%T: %v", err, err)})
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			log.Error(log.ErrorMessage{Operation: operation, Err: cleanupError(e)})
		}
		return
	}
	log.Error(log.ErrorMessage{Operation: operation, Err: cleanupError(err)})
}

// cleanupError converts multiline messages into a single line.
func cleanupError(err error) string {
	s := strings.ReplaceAll(err.Error(), "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}

// exitCode maps err to the process exit code spec.md §6 defines.
func exitCode(err error) int {
	return yokerr.ExitCodeOf(err)
}
