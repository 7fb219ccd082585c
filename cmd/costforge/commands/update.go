package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/costforge/costforge/pkg/version"
)

const releasesURL = "https://api.github.com/repos/costforge/costforge/releases/latest"

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check whether a newer costforge release exists",
	Run: func(cmd *cobra.Command, args []string) {
		if settings.SkipUpdateCheck {
			fmt.Println("Update check disabled (skip_update_check).")
			return
		}
		fmt.Println("Checking for updates...")

		latest, err := fetchLatestVersion()
		if err != nil {
			fmt.Printf("Failed to check version: %v\n", err)
			return
		}

		switch {
		case latest == version.Current:
			fmt.Printf("You are already running the latest version (%s).\n", version.Current)
		case latest < version.Current:
			fmt.Printf("You are running a newer version (%s) than the latest release (%s).\n", version.Current, latest)
		default:
			fmt.Printf("Found new version: %s (Current: %s)\n", latest, version.Current)
			fmt.Println("Download it from https://github.com/costforge/costforge/releases")
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func fetchLatestVersion() (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(releasesURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release endpoint returned %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return strings.TrimSpace(release.TagName), nil
}
