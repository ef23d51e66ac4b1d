package publish

import (
	"fmt"
	"os"
)

// ArtifactOutput records the artifact path for later workflow steps by
// appending an "artifact=<path>" line to the file named by the
// GITHUB_OUTPUT environment variable. Outside GitHub Actions the
// variable is unset and the call is a no-op.
func ArtifactOutput(archivePath string) error {
	outputFile := os.Getenv("GITHUB_OUTPUT")
	if outputFile == "" {
		return nil
	}

	f, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open GITHUB_OUTPUT: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "artifact=%s\n", archivePath); err != nil {
		return fmt.Errorf("failed to write GITHUB_OUTPUT: %w", err)
	}
	return nil
}
