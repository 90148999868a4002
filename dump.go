package mealcompanion

import (
	"fmt"
	"io"
	"runtime"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

// Dump writes a labelled, deterministic dump of v to w, prefixed with the caller location.
func Dump(w io.Writer, label string, v ...any) {
	_, file, line, _ := runtime.Caller(1)
	fmt.Fprintf(w, "%s:%d: %s\n", file, line, label)
	dumpConfig.Fdump(w, v...)
}
