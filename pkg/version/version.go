package version

import "fmt"

// Current defines the application version.
// It defaults to "dev" but is overwritten at release time using -ldflags.
var Current = "dev"

// Commit and Date are injected via ldflags alongside Current.
var (
	Commit = "none"
	Date   = "unknown"
)

const AppName = "costforge"

// UserAgent is sent on update checks and AWS API calls.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", AppName, Current)
}
