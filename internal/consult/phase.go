package consult

import "strings"

// Phase names one stage of the intake conversation.
type Phase string

const (
	PhaseInitial               Phase = "initial"
	PhaseProblemDiscovery      Phase = "problem_discovery"
	PhaseProcessUnderstanding  Phase = "process_understanding"
	PhaseImpactAnalysis        Phase = "impact_analysis"
	PhaseRequirementsGathering Phase = "requirements_gathering"
	PhaseReadyToBuild          Phase = "ready_to_build"
)

// ReadyThreshold is the progress at which a session is considered ready for
// generation.
const ReadyThreshold = 85

// PhaseFor maps a progress score to its conversation phase.
func PhaseFor(progress int) Phase {
	switch {
	case progress < 20:
		return PhaseInitial
	case progress < 40:
		return PhaseProblemDiscovery
	case progress < 60:
		return PhaseProcessUnderstanding
	case progress < 80:
		return PhaseImpactAnalysis
	case progress < 95:
		return PhaseRequirementsGathering
	default:
		return PhaseReadyToBuild
	}
}

// ReadyForGeneration reports whether enough information has been gathered to
// hand the session off to solution generation.
func ReadyForGeneration(progress int) bool {
	return progress >= ReadyThreshold
}

var buildTriggers = []string{
	"start now",
	"begin",
	"build it",
	"let's go",
	"do it",
	"start building",
	"get started",
	"build this",
	"create this",
	"implement",
}

// HasBuildTrigger reports whether the utterance contains an explicit request
// to start building.
func HasBuildTrigger(message string) bool {
	return containsAny(strings.ToLower(message), buildTriggers)
}

// ShouldBuild decides whether to kick off building right now. An explicit
// trigger phrase is always required; on top of that the conversation must
// either be far enough along, have tripped the comprehensive detector, or
// have both a business type and a concrete problem on record.
func ShouldBuild(message string, progress int, comprehensive bool, facts Facts) bool {
	if !HasBuildTrigger(message) {
		return false
	}
	if progress >= ReadyThreshold || comprehensive {
		return true
	}
	return facts.Has("business_type") && facts.Has("specific_problem")
}
