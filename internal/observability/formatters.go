// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecommendation outputs a human-readable summary of a generated
// career recommendation.
func (p *Printer) PrintRecommendation(rec *types.RecommendationOutput) {
	if rec == nil {
		return
	}

	var sb strings.Builder

	summary := rec.PersonalizedSummary
	if len(summary) > 50 {
		summary = summary[:47] + "..."
	}
	sb.WriteString(fmt.Sprintf("Summary:  %s\n", summary))
	sb.WriteString("\n")

	if len(rec.RecommendedCareers) > 0 {
		sb.WriteString("Recommended Careers:\n")
		count := min(len(rec.RecommendedCareers), maxItemsToShow)
		for i := 0; i < count; i++ {
			career := rec.RecommendedCareers[i]
			sb.WriteString(fmt.Sprintf("  • %s\n", career.Title))
		}
		if len(rec.RecommendedCareers) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(rec.RecommendedCareers)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(rec.SkillDevelopmentPlan) > 0 {
		sb.WriteString("Skill Plan:\n")
		count := min(len(rec.SkillDevelopmentPlan), 3)
		for i := 0; i < count; i++ {
			item := rec.SkillDevelopmentPlan[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", item.Skill, item.Type))
		}
		if len(rec.SkillDevelopmentPlan) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(rec.SkillDevelopmentPlan)-3))
		}
	}

	p.printBox("CAREER RECOMMENDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobMatches outputs the three fit buckets of a job-search result.
func (p *Printer) PrintJobMatches(out *types.JobSearchOutput) {
	if out == nil {
		return
	}

	var sb strings.Builder
	total := len(out.PassionRoles) + len(out.StrengthRoles) + len(out.GrowthRoles)
	sb.WriteString(fmt.Sprintf("Total matches: %d\n", total))

	buckets := []struct {
		name string
		jobs []types.JobDetails
	}{
		{"Passion", out.PassionRoles},
		{"Strength", out.StrengthRoles},
		{"Growth", out.GrowthRoles},
	}

	for _, bucket := range buckets {
		if len(bucket.jobs) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s Roles:\n", bucket.name))
		count := min(len(bucket.jobs), 3)
		for i := 0; i < count; i++ {
			job := bucket.jobs[i]
			line := fmt.Sprintf("%s @ %s", job.Title, job.Company)
			if len(line) > 48 {
				line = line[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", line))
		}
		if len(bucket.jobs) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(bucket.jobs)-3))
		}
	}

	p.printBox("JOB MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoadmap outputs a 90-day roadmap phase by phase with completion
// marks.
func (p *Printer) PrintRoadmap(rm *types.Roadmap) {
	if rm == nil || len(rm.Roadmap) == 0 {
		return
	}

	done := make(map[string]bool, len(rm.CompletedTasks))
	for _, task := range rm.CompletedTasks {
		done[task] = true
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Target:   %s @ %s\n", rm.JobDetails.Title, rm.JobDetails.Company))

	for _, phase := range rm.Roadmap {
		sb.WriteString(fmt.Sprintf("\n%s\n", phase.Phase))
		count := min(len(phase.Tasks), maxItemsToShow)
		for i := 0; i < count; i++ {
			mark := "☐"
			if done[phase.Tasks[i]] {
				mark = "☑"
			}
			task := phase.Tasks[i]
			if len(task) > 48 {
				task = task[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s %s\n", mark, task))
		}
		if len(phase.Tasks) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(phase.Tasks)-maxItemsToShow))
		}
	}

	p.printBox("90-DAY ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintIngestSummary reports what a knowledge-base ingestion stored.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintIngestSummary(filename string, chunks int) {
	if chunks == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO CHUNKS STORED (document too short?)")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", filename))
	sb.WriteString(fmt.Sprintf("Chunks:   %d", chunks))
	p.printBox("KNOWLEDGE BASE INGEST", sb.String())
}
