package uriresolve

import "fmt"

func newEmptyUnderlyingError(raw string) error {
	return fmt.Errorf("uri %q has no underlying uri after its decorator prefix", raw)
}

func newEntryPathCountMismatchError(raw string, archiveDecorators, entryPaths int) error {
	return fmt.Errorf(
		"uri %q has %d archive decorator(s) but %d entry-path suffix(es); they must match 1:1",
		raw, archiveDecorators, entryPaths,
	)
}

func newUnsupportedSchemeError(scheme string) error {
	return fmt.Errorf("unsupported innermost uri scheme %q", scheme)
}
