// Package commandline contains helper types for collecting repeated
// command-line flags, such as cmd/xpatheval's repeatable -ns prefix=uri
// binding.
package commandline // import "github.com/p-netm/enketo-xpath/internal/commandline"

import "strings"

// Strings collects multiple occurrences of a flag, in the order given on
// the command line, implementing flag.Value.
type Strings []string

func (s *Strings) String() string {
	return strings.Join(*s, ",")
}

func (s *Strings) Set(val string) error {
	*s = append(*s, val)
	return nil
}
