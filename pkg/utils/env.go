package utils

import "os"

// IsGitHubActions detects whether the process runs inside a GitHub Actions
// runner, the CI signal the auto backend mode keys off.
func IsGitHubActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}
