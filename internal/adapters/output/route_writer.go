package output

import (
	"bufio"
	"courier-route-service/internal/domain"
	"fmt"
	"io"
	"os"
)

// WriteStops writes the visited node names of route, one per line.
// The first and last lines are the depot.
func WriteStops(w io.Writer, route *domain.Route) error {
	bw := bufio.NewWriter(w)
	for _, name := range route.Stops {
		if _, err := fmt.Fprintln(bw, name); err != nil {
			return fmt.Errorf("write stops: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write stops: flush: %w", err)
	}
	return nil
}

// WriteStopsFile writes the route's stops to path, replacing any existing file.
func WriteStopsFile(path string, route *domain.Route) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write stops file: create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("write stops file: close %q: %w", path, cerr)
		}
	}()

	return WriteStops(f, route)
}
