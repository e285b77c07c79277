package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyfhx/stock-screener/internal/screener/dto"
	"github.com/hyfhx/stock-screener/internal/screener/scoring"
)

// Telegram rejects messages above 4096 characters; keep headroom for the
// part suffix.
const maxMessageLen = 4090

// FormatScreeningResults renders one screening run as Markdown messages,
// grouped by grade, split when a single message would exceed the Telegram
// length limit.
func FormatScreeningResults(summary *dto.RunSummary, results []scoring.Result) []string {
	var messages []string
	var sb strings.Builder

	startNewPart := func() {
		if sb.Len() > 0 {
			messages = append(messages, sb.String())
			sb.Reset()
		}
		sb.WriteString(fmt.Sprintf("📊 *Screening Results* (part %d)\n\n", len(messages)+1))
	}

	sb.WriteString("📊 *Screening Results*\n")
	sb.WriteString(fmt.Sprintf("_%s_\n\n", time.Now().Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Universe: %d | Evaluated: %d | Skipped: %d | Errors: %d\n",
		summary.TotalSymbols, summary.Evaluated, summary.Skipped, summary.Errored))
	sb.WriteString(fmt.Sprintf("Signals: %d | Duration: %.1fs\n", summary.SignalsFound, summary.Duration.Seconds()))
	if summary.TimedOut {
		sb.WriteString("⚠️ Run hit the time limit, results are partial\n")
	}

	if len(results) == 0 {
		sb.WriteString("\nNo symbols qualified today.")
		return append(messages, sb.String())
	}

	byGrade := map[string][]scoring.Result{}
	for _, r := range results {
		byGrade[r.Grade] = append(byGrade[r.Grade], r)
	}

	gradeHeaders := []struct {
		grade  string
		header string
	}{
		{scoring.GradeA, "🟢 *Grade A - strong setups*"},
		{scoring.GradeB, "🟡 *Grade B*"},
		{scoring.GradeC, "⚪ *Grade C*"},
	}
	for _, gh := range gradeHeaders {
		group := byGrade[gh.grade]
		if len(group) == 0 {
			continue
		}
		section := fmt.Sprintf("\n%s\n", gh.header)
		if sb.Len()+len(section) > maxMessageLen {
			startNewPart()
		}
		sb.WriteString(section)
		for _, r := range group {
			line := formatResultLine(r)
			if sb.Len()+len(line) > maxMessageLen {
				startNewPart()
				sb.WriteString(fmt.Sprintf("%s (cont.)\n", gh.header))
			}
			sb.WriteString(line)
		}
	}

	return append(messages, sb.String())
}

func formatResultLine(r scoring.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("• *%s* %.0f", r.Symbol, r.Score))
	sb.WriteString(fmt.Sprintf(" - $%.2f (%+.1f%%)", r.Price, r.ChangePercent))
	if len(r.Breakdown) > 0 {
		flags := make([]string, 0, len(r.Breakdown))
		for flag := range r.Breakdown {
			flags = append(flags, string(flag))
		}
		sb.WriteString("\n  " + strings.Join(flags, ", "))
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatTuningReport renders a weight tuning cycle as one Markdown message.
func FormatTuningReport(report *dto.TuningReport) string {
	var sb strings.Builder
	sb.WriteString("⚖️ *Weekly Weight Tuning*\n\n")
	sb.WriteString(fmt.Sprintf("Samples: %d | Overall hit rate: %.0f%%\n",
		report.TotalSamples, report.OverallHitRate*100))

	if len(report.Stats) > 0 {
		sb.WriteString("\n*Signal accuracy*\n")
		for _, st := range report.Stats {
			sb.WriteString(fmt.Sprintf("• %s: %.0f%% over %d picks (avg %+.1f%%)\n",
				st.Signal, st.HitRate*100, st.SampleCount, st.AvgReturn))
		}
	}

	if len(report.Applied) > 0 {
		sb.WriteString("\n*Adjustments*\n")
		for _, adj := range report.Applied {
			sb.WriteString(fmt.Sprintf("• %s: %.1f → %.1f (%s)\n", adj.Signal, adj.Old, adj.New, adj.Reason))
		}
		if report.Committed {
			sb.WriteString(fmt.Sprintf("\n✅ Version %d committed and active\n", report.ProposedVersion))
		} else {
			sb.WriteString(fmt.Sprintf("\n📝 Version %d proposed, awaiting commit\n", report.ProposedVersion))
		}
	} else {
		sb.WriteString("\nNo adjustments this cycle.\n")
	}

	for _, w := range report.Warnings {
		sb.WriteString(fmt.Sprintf("\n⚠️ %s", w))
	}
	return sb.String()
}

// FormatErrorAlert renders a failure notification.
func FormatErrorAlert(at time.Time, jobType string, errMsg string) string {
	return fmt.Sprintf("🚨 *Job failed*\nType: %s\nTime: %s\nError: %s",
		jobType, at.Format("2006-01-02 15:04:05"), errMsg)
}
