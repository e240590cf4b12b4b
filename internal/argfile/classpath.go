package argfile

import "runtime"

// classpathSeparator returns the OS-appropriate java -classpath entry
// separator: ";" on Windows, ":" everywhere else.
func classpathSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}
