package version

import (
	"fmt"
	"time"
)

// Заполняются через -ldflags "-X zemeroth-core/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// Номер сборки - число дней от начала проекта
var buildEpoch = time.Date(
	2025, time.December, 4,
	0, 0, 0, 0,
	time.UTC,
)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	BuildID    int
	BuildDate  string
	Commit     string
	Branch     string
	CI         string
	Calculated bool
	Error      string
}

func CalculateBuildID() (int, error) {
	return buildIDFor(BuildDate)
}

func buildIDFor(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", date, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", date)
	}

	// Both dates are UTC midnights, so whole days divide evenly.
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info returns structured version information.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns the banner printed by the battle runner.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("zemeroth-core dev build (%s)", info.Error)
	}

	return fmt.Sprintf(
		"zemeroth-core build %d (%s) commit[%s] branch[%s] ci[%s]",
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
