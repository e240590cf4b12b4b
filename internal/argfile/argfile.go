// Package argfile builds the argument files protoc and java accept via
// the "@file" convention: one token per line, UTF-8, LF-terminated, no
// shell quoting or escaping (spec.md §4.9, §6).
package argfile

import (
	"bufio"
	"fmt"
	"os"

	"github.com/protoc-build/protocgen/internal/model"
)

// Write writes tokens to path, one per line, failing if any token is
// blank — protoc's argument-file reader treats a blank line as an empty
// token, which is never a valid flag or path.
func Write(path string, tokens []string) error {
	for i, tok := range tokens {
		if tok == "" {
			return model.NewInvalidInputError("argument file token %d is blank", i)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, tok := range tokens {
		if _, err := fmt.Fprintln(w, tok); err != nil {
			return err
		}
	}
	return w.Flush()
}

// JavaClasspathArgs renders the JVM argument-file tokens for a
// `-classpath <cp>` + main-class invocation, used by the JVM plugin
// wrapper script (spec.md §4.6) to keep the launched classpath out of
// the shell command line.
func JavaClasspathArgs(classpath []string, mainClass string, extraArgs []string) []string {
	tokens := []string{"-classpath", joinClasspath(classpath)}
	tokens = append(tokens, extraArgs...)
	tokens = append(tokens, mainClass)
	return tokens
}

func joinClasspath(entries []string) string {
	sep := classpathSeparator()
	out := ""
	for i, e := range entries {
		if i > 0 {
			out += sep
		}
		out += e
	}
	return out
}
