package consult

import (
	"reflect"
	"testing"
)

func TestScoreFieldAntiVague(t *testing.T) {
	rule := FieldRule{Points: 15, AntiVagueTerms: []string{"automate", "improve", "fix", "help"}}
	got := scoreField(StringValue("automate this"), rule)
	if got != 3.0 {
		t.Fatalf("scoreField() = %v, want 3.0", got)
	}
}

func TestScoreFieldMinLength(t *testing.T) {
	rule := FieldRule{Points: 15, MinLength: 50}
	got := scoreField(StringValue("x"), rule)
	if got != 15*0.3 {
		t.Fatalf("scoreField() = %v, want %v", got, 15*0.3)
	}
}

func TestScoreFieldRequiresNumbers(t *testing.T) {
	rule := FieldRule{Points: 8, RequiresNumbers: true}
	if got := scoreField(StringValue("a whole lot"), rule); got != 8*0.2 {
		t.Fatalf("scoreField() without digits = %v, want %v", got, 8*0.2)
	}
	if got := scoreField(StringValue("about 300 orders a week"), rule); got != 8.0 {
		t.Fatalf("scoreField() with digits = %v, want 8.0", got)
	}
}

func TestScoreFieldList(t *testing.T) {
	rule := FieldRule{Points: 10, ListPreferred: true, MinItems: 3}
	full := ListValue(StringValue("exports"), StringValue("alerts"), StringValue("audit log"))
	if got := scoreField(full, rule); got != 10.0 {
		t.Fatalf("scoreField() full list = %v, want 10.0", got)
	}
	short := ListValue(StringValue("exports"))
	if got := scoreField(short, rule); got != 5.0 {
		t.Fatalf("scoreField() short list = %v, want 5.0", got)
	}
}

func TestScoreFieldQualityMultiplier(t *testing.T) {
	rule := FieldRule{Points: 4, QualityBonus: true}
	long := StringValue("subscription revenue with annual contracts and usage-based tiers")
	if got := scoreField(long, rule); got != 8.0 {
		t.Fatalf("scoreField() detailed = %v, want 8.0 (2x cap)", got)
	}
	if got := scoreField(StringValue("saas"), rule); got != 4*(4.0/20) {
		t.Fatalf("scoreField() terse = %v, want %v", got, 4*(4.0/20))
	}
}

func TestScoreFieldAbsent(t *testing.T) {
	if got := scoreField(Value{}, FieldRule{Points: 15}); got != 0 {
		t.Fatalf("scoreField() absent = %v, want 0", got)
	}
	if got := scoreField(StringValue(""), FieldRule{Points: 15}); got != 0 {
		t.Fatalf("scoreField() empty = %v, want 0", got)
	}
}

func TestScoreCategoryCaps(t *testing.T) {
	s := NewScorer()
	facts := Facts{
		"business_type":  StringValue("a dental support organization running twelve clinics across the region"),
		"industry":       StringValue("dental services for mid-size practices across three states"),
		"business_model": StringValue("recurring management fees plus per-clinic service contracts billed monthly"),
		"team_size":      StringValue("45"),
		"revenue_stage":  StringValue("8M ARR"),
	}
	res := s.Score(facts, 0)

	bc := res.CategoryBreakdown["business_context"]
	if bc.Score > bc.Max {
		t.Fatalf("category score %v exceeds max %v", bc.Score, bc.Max)
	}
	if bc.Score != bc.Max {
		t.Fatalf("category score = %v, want capped at %v", bc.Score, bc.Max)
	}
	if res.RawCalculated > 100 {
		t.Fatalf("raw score = %d, want <= 100", res.RawCalculated)
	}
}

func TestScoreSmoothingLargeJump(t *testing.T) {
	s := NewScorer()
	facts := richFacts()
	res := s.Score(facts, 60)

	if res.RawCalculated <= 70 {
		t.Fatalf("raw score = %d, want > 70 for this fixture", res.RawCalculated)
	}
	want := 60 + 25
	if res.Progress != want {
		t.Fatalf("Score() progress = %d, want %d", res.Progress, want)
	}
	if !res.Smoothed {
		t.Fatalf("Score() smoothed = false, want true")
	}
}

func TestScoreSmoothingSmallJump(t *testing.T) {
	s := NewScorer()
	facts := Facts{
		"specific_problem":  StringValue("invoices are retyped by hand from emailed PDFs into the accounting system"),
		"problem_impact":    StringValue("two staff days per week are lost to rekeying and corrections"),
		"detailed_workflow": StringValue("finance downloads each PDF, retypes line items into the ledger, then a second person checks the totals"),
	}
	res := s.Score(facts, 10)

	if res.RawCalculated <= 25 || res.RawCalculated > 70 {
		t.Fatalf("raw score = %d, want in (25, 70] for this fixture", res.RawCalculated)
	}
	if res.Progress != 10+15 {
		t.Fatalf("Score() progress = %d, want %d", res.Progress, 25)
	}
}

func TestScoreNoSmoothingOnFirstTurn(t *testing.T) {
	s := NewScorer()
	facts := richFacts()
	res := s.Score(facts, 0)

	if res.Progress != res.RawCalculated {
		t.Fatalf("Score() progress = %d, want raw %d on first turn", res.Progress, res.RawCalculated)
	}
	if res.Smoothed {
		t.Fatalf("Score() smoothed = true, want false")
	}
}

func TestScoreComprehensiveFastPath(t *testing.T) {
	s := NewScorer()
	facts := Facts{
		"summary": StringValue("I run a law firm, every contract we generate starts from a meeting transcript and a document template"),
		"process": StringValue("the current process takes a week per contract, we record everything on zoom"),
		"volume":  StringValue("around 30 contracts a month for our clients"),
	}
	res := s.Score(facts, 5)

	if !res.ComprehensiveDetected {
		t.Fatalf("Score() comprehensive_detected = false, want true")
	}
	if res.Progress < 80 {
		t.Fatalf("Score() progress = %d, want >= 80", res.Progress)
	}
	if res.Smoothed {
		t.Fatalf("Score() smoothed = true, want false on fast path")
	}
}

func TestScoreIdempotent(t *testing.T) {
	s := NewScorer()
	facts := richFacts()

	first := s.Score(facts, 40)
	second := s.Score(facts, 40)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Score() not idempotent: %+v vs %+v", first, second)
	}
}

func TestScoreMonotonicAsFactsGrow(t *testing.T) {
	s := NewScorer()
	facts := Facts{}
	additions := []struct {
		key string
		val Value
	}{
		{"business_type", StringValue("regional freight brokerage coordinating carriers across the midwest")},
		{"specific_problem", StringValue("dispatchers rebuild carrier schedules from scratch whenever a load changes")},
		{"detailed_workflow", StringValue("each load is quoted over the phone, keyed into spreadsheets, then emailed to carriers for confirmation")},
		{"volume_metrics", StringValue("about 450 loads per week across 3 dispatch teams")},
		{"must_have_features", ListValue(StringValue("carrier portal"), StringValue("load board sync"), StringValue("automated rate confirmations"))},
	}

	prev := 0
	for _, add := range additions {
		facts[add.key] = add.val
		res := s.Score(facts, prev)
		if res.Progress < prev {
			t.Fatalf("progress decreased from %d to %d after adding %q", prev, res.Progress, add.key)
		}
		prev = res.Progress
	}
}

func TestScoreClampsInvalidPrior(t *testing.T) {
	s := NewScorer()
	facts := Facts{
		"specific_problem": StringValue("orders placed on the website never reach the kitchen printer without a manual re-entry step"),
	}

	neg := s.Score(facts, -10)
	if neg.Progress != neg.RawCalculated {
		t.Fatalf("Score() with negative prior: progress = %d, want raw %d", neg.Progress, neg.RawCalculated)
	}
	over := s.Score(facts, 150)
	if over.Progress > 100 {
		t.Fatalf("Score() with oversized prior: progress = %d, want <= 100", over.Progress)
	}
}

// richFacts fills enough of the schema to push the raw score past 70 without
// tripping the comprehensive detector.
func richFacts() Facts {
	return Facts{
		"business_type":      StringValue("independent veterinary hospital group with four locations and a mobile unit"),
		"industry":           StringValue("veterinary care, companion animals, urgent and routine visits"),
		"team_size":          StringValue("28"),
		"revenue_stage":      StringValue("4.2M annual revenue, profitable"),
		"business_model":     StringValue("fee for service visits plus wellness memberships billed annually"),
		"specific_problem":   StringValue("appointment requests arrive by phone and voicemail and get written on paper slips that are mislaid"),
		"problem_frequency":  StringValue("every single morning, worst on Mondays"),
		"problem_impact":     StringValue("roughly 40 missed appointments per week across locations"),
		"detailed_workflow":  StringValue("front desk checks voicemail, writes each request on a slip, walks it to the scheduler, who phones the owner back to confirm a slot"),
		"tools_used":         ListValue(StringValue("paper slips"), StringValue("a shared calendar"), StringValue("voicemail")),
		"people_involved":    StringValue("2 front desk staff and 1 scheduler per location"),
		"time_investment":    StringValue("about 3 hours per day per location"),
		"volume_metrics":     StringValue("620 appointments per week"),
		"financial_impact":   StringValue("an estimated 9,000 in lost visits per week"),
		"growth_trajectory":  StringValue("opening 2 more locations next year"),
		"must_have_features": ListValue(StringValue("online booking"), StringValue("reminder texts"), StringValue("waitlist backfill")),
		"constraints":        StringValue("must integrate with our existing practice management system"),
		"timeline":           StringValue("live before the winter rush"),
	}
}
