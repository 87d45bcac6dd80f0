package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

var (
	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	MetadataKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9CA3AF")).
				Bold(true)

	MetadataValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#D1D5DB"))

	RunBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	StatusBadgeRunning = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#10B981")).
				Padding(0, 1)

	StatusBadgePending = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#1F2937")).
				Background(lipgloss.Color("#FBBF24")).
				Padding(0, 1)

	StatusBadgeSucceeded = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#8B5CF6")).
				Padding(0, 1)

	StatusBadgeFailed = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#EF4444")).
				Padding(0, 1)
)

// CreateStatusBadge renders a run status as a colored badge
func CreateStatusBadge(status entities.RunStatus) string {
	label := strings.ToUpper(string(status))
	switch status {
	case entities.RunStatusRunning:
		return StatusBadgeRunning.Render(label)
	case entities.RunStatusReady, entities.RunStatusTimingOut, entities.RunStatusAborting:
		return StatusBadgePending.Render(label)
	case entities.RunStatusSucceeded:
		return StatusBadgeSucceeded.Render(label)
	case entities.RunStatusFailed, entities.RunStatusTimedOut, entities.RunStatusAborted:
		return StatusBadgeFailed.Render(label)
	default:
		return StatusBadgePending.Render(label)
	}
}

// CreateRunSummary renders the identifying fields of a run in a box
func CreateRunSummary(run *entities.Run) string {
	if run == nil {
		return ""
	}

	rows := [][2]string{
		{"Run", run.ID},
		{"Actor", run.ActorID},
		{"Status", CreateStatusBadge(run.Status)},
	}
	if run.StatusMessage != "" {
		rows = append(rows, [2]string{"Message", run.StatusMessage})
	}
	if run.DefaultKeyValueStoreID != "" {
		rows = append(rows, [2]string{"Key-value store", run.DefaultKeyValueStoreID})
	}
	if run.DefaultDatasetID != "" {
		rows = append(rows, [2]string{"Dataset", run.DefaultDatasetID})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s",
			MetadataKeyStyle.Render(row[0]+":"),
			MetadataValueStyle.Render(row[1])))
	}
	return RunBoxStyle.Render(strings.Join(lines, "\n"))
}
