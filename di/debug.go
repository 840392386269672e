package di

import (
	"fmt"
	"io"
	"strings"
)

// FprintRegistrations writes one line per registration. Built singletons
// are marked with a filled bullet.
func (r *Registry) FprintRegistrations(w io.Writer) {
	infos := r.Registrations()
	if len(infos) == 0 {
		_, _ = fmt.Fprintln(w, "(empty registry)")
		return
	}

	for _, info := range infos {
		status := "○"
		if info.Initialized {
			status = "●"
		}
		_, _ = fmt.Fprintf(w, "%s %s [%s]\n", status, info.Key, info.Lifetime)
	}
}

// SprintRegistrations returns the FprintRegistrations listing as a string.
func (r *Registry) SprintRegistrations() string {
	var sb strings.Builder
	r.FprintRegistrations(&sb)
	return sb.String()
}
