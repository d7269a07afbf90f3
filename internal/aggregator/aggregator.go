package aggregator

import (
	"sort"
	"time"

	"github.com/dialecticianai/hegel-pm-sub000/internal/hegelfmt"
)

const timeLayout = time.RFC3339

// BuildWorkflowSummaries groups a project's raw metrics into one summary per
// workflow_id. Phases are associated to a workflow by the nearest preceding
// transition (by start_time); a phase with no preceding transition falls
// into the synthetic "unknown" workflow. Workflow ids that appear only in
// transitions (no phases) still produce an empty-phases workflow.
func BuildWorkflowSummaries(metrics hegelfmt.UnifiedMetrics) []WorkflowSummary {
	transitions := append([]hegelfmt.Transition(nil), metrics.Transitions...)
	sort.SliceStable(transitions, func(i, j int) bool {
		return transitions[i].Timestamp.Before(transitions[j].Timestamp)
	})

	modeByWorkflow := map[string]string{}
	order := []string{}
	for _, t := range transitions {
		if _, ok := modeByWorkflow[t.WorkflowID]; !ok {
			modeByWorkflow[t.WorkflowID] = t.Mode
			order = append(order, t.WorkflowID)
		}
	}

	phasesByWorkflow := map[string][]hegelfmt.PhaseMetric{}
	for _, phase := range metrics.PhaseMetrics {
		wfID := workflowForPhase(phase, transitions)
		phasesByWorkflow[wfID] = append(phasesByWorkflow[wfID], phase)
	}

	if _, ok := phasesByWorkflow[unknownWorkflowID]; ok {
		if _, known := modeByWorkflow[unknownWorkflowID]; !known {
			order = append(order, unknownWorkflowID)
		}
	}

	summaries := make([]WorkflowSummary, 0, len(order))
	for _, wfID := range order {
		summaries = append(summaries, buildWorkflowSummary(wfID, modeByWorkflow[wfID], phasesByWorkflow[wfID]))
	}

	return summaries
}

// workflowForPhase returns the workflow_id of the last transition whose
// timestamp is at or before the phase's start_time, or the synthetic
// "unknown" id if no such transition exists.
func workflowForPhase(phase hegelfmt.PhaseMetric, sortedTransitions []hegelfmt.Transition) string {
	wfID := unknownWorkflowID
	for _, t := range sortedTransitions {
		if t.Timestamp.After(phase.StartTime) {
			break
		}
		wfID = t.WorkflowID
	}
	return wfID
}

func buildWorkflowSummary(workflowID, mode string, phases []hegelfmt.PhaseMetric) WorkflowSummary {
	sorted := append([]hegelfmt.PhaseMetric(nil), phases...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	phaseSummaries := make([]PhaseSummary, 0, len(sorted))
	var total MetricsSummary
	active := false
	currentPhase := ""

	for _, p := range sorted {
		status := PhaseCompleted
		endTime := ""
		if p.EndTime == nil {
			status = PhaseInProgress
			active = true
			currentPhase = p.PhaseName
		} else {
			endTime = p.EndTime.Format(timeLayout)
		}

		phaseSummaries = append(phaseSummaries, PhaseSummary{
			PhaseName:       p.PhaseName,
			Status:          status,
			StartTime:       p.StartTime.Format(timeLayout),
			EndTime:         endTime,
			DurationSeconds: p.DurationSeconds,
			Metrics:         metricsFromPhase(p),
		})

		total.add(p)
	}

	status := StatusCompleted
	if active {
		status = StatusActive
	} else {
		currentPhase = ""
	}

	return WorkflowSummary{
		WorkflowID:   workflowID,
		Mode:         mode,
		Status:       status,
		CurrentPhase: currentPhase,
		Phases:       phaseSummaries,
		TotalMetrics: total,
	}
}

func metricsFromPhase(p hegelfmt.PhaseMetric) MetricsSummary {
	var m MetricsSummary
	m.add(p)
	return m
}

// BuildProjectInfo builds the full per-project response shape: the grouped
// workflow summaries plus the project-wide scalar rollup.
func BuildProjectInfo(name string, state *hegelfmt.WorkflowState, metrics hegelfmt.UnifiedMetrics) ProjectInfo {
	workflows := BuildWorkflowSummaries(metrics)

	var summary ProjectMetricsSummary
	for _, wf := range workflows {
		summary.addSummary(wf.TotalMetrics)
		summary.PhaseCount += int64(len(wf.Phases))
	}
	summary.EventCount = metrics.EventCount

	return ProjectInfo{
		ProjectName: name,
		Summary:     summary,
		Detail: ProjectWorkflowDetail{
			CurrentWorkflowState: state,
			Workflows:            workflows,
		},
	}
}

// BuildAllProjectsAggregate sums ProjectInfo summaries across every
// discovered project.
func BuildAllProjectsAggregate(projectSummaries []ProjectMetricsSummary) AllProjectsAggregate {
	var total AggregateMetrics
	for _, s := range projectSummaries {
		total.addSummary(s.MetricsSummary)
		total.EventCount += s.EventCount
		total.PhaseCount += s.PhaseCount
	}

	return AllProjectsAggregate{
		TotalProjects:    len(projectSummaries),
		AggregateMetrics: total,
	}
}
