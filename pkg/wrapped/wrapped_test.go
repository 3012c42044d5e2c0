package wrapped

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/S2thend/cursor-history-mcp/pkg/internalerr"
)

func raw(ts time.Time, text string) RawRecord {
	return RawRecord{Text: text, Timestamp: ts}
}

// mondayOfWeek returns the Monday of the given 2025 ISO week. January 6 2025
// is the Monday of ISO week 2.
func mondayOfWeek(week int) time.Time {
	base := time.Date(2025, time.January, 6, 12, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, (week-2)*7)
}

// subjectCorpus builds 200 records across five disjoint subjects, each
// subject occupying ten consecutive ISO weeks with four identical question
// records per week.
func subjectCorpus() []RawRecord {
	subjects := [][4]string{
		{"docker", "container", "registry", "volume"},
		{"react", "component", "hooks", "render"},
		{"postgres", "index", "migration", "vacuum"},
		{"kubernetes", "cluster", "ingress", "nodepool"},
		{"terraform", "module", "provider", "statefile"},
	}

	var records []RawRecord
	for s, terms := range subjects {
		text := "how do we tune " + terms[0] + " " + terms[1] + " " + terms[2] + " " + terms[3] + " for production?"
		for w := 0; w < 10; w++ {
			monday := mondayOfWeek(2 + s*10 + w)
			for i := 0; i < 4; i++ {
				records = append(records, raw(monday.Add(time.Duration(i)*time.Hour), text))
			}
		}
	}
	return records
}

func TestGenerateSparseYear(t *testing.T) {
	engine := New()
	cfg := DefaultConfig(2025)
	cfg.Workspace = "acme-api"

	records := []RawRecord{
		raw(time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC), "How do I configure the dev container?"),
		raw(time.Date(2025, time.April, 2, 9, 30, 0, 0, time.UTC), "Why is the build slow?"),
		raw(time.Date(2025, time.September, 9, 17, 5, 0, 0, time.UTC), "What broke the deploy pipeline?"),
	}

	summary, err := engine.Generate(cfg, records)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if summary.Stats.TotalQuestions != 3 {
		t.Errorf("totalQuestions = %d, want 3", summary.Stats.TotalQuestions)
	}
	if summary.Stats.ActiveMonths != 3 {
		t.Errorf("activeMonths = %d, want 3", summary.Stats.ActiveMonths)
	}
	wantMonthly := map[string]int{"2025-01": 1, "2025-04": 1, "2025-09": 1}
	if !reflect.DeepEqual(summary.Stats.MonthlyDistribution, wantMonthly) {
		t.Errorf("monthlyDistribution = %v, want %v", summary.Stats.MonthlyDistribution, wantMonthly)
	}
	if summary.LengthBuckets.Short != 3 || summary.LengthBuckets.Medium != 0 || summary.LengthBuckets.Long != 0 {
		t.Errorf("lengthBuckets = %+v, want all three records short", summary.LengthBuckets)
	}

	if len(summary.Topics) != 0 {
		t.Errorf("expected no topics below the data threshold, got %d", len(summary.Topics))
	}
	foundNote := false
	for _, note := range summary.Notes {
		if strings.Contains(note, "topic extraction skipped") {
			foundNote = true
		}
	}
	if !foundNote {
		t.Errorf("notes %v missing topic extraction skip", summary.Notes)
	}

	if len(summary.Samples.Questions) != 3 {
		t.Errorf("samples = %v, want all three questions", summary.Samples.Questions)
	}

	if summary.Meta.Year != 2025 || summary.Meta.Language != "en" || summary.Meta.Workspace != "acme-api" {
		t.Errorf("meta = %+v", summary.Meta)
	}
	if len(summary.Meta.ReportID) != 26 {
		t.Errorf("report ID should be 26 characters (ULID), got %d", len(summary.Meta.ReportID))
	}
	if summary.Meta.GeneratedAt.IsZero() {
		t.Error("generatedAt should be set")
	}
	if len(summary.Safety.Filters) == 0 || len(summary.Safety.Guarantees) == 0 {
		t.Errorf("safety metadata incomplete: %+v", summary.Safety)
	}
}

func TestGenerateSubjectClusters(t *testing.T) {
	engine := New()
	cfg := DefaultConfig(2025)
	cfg.Seed = 42

	summary, err := engine.Generate(cfg, subjectCorpus())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if summary.Stats.TotalQuestions != 200 {
		t.Fatalf("totalQuestions = %d, want 200", summary.Stats.TotalQuestions)
	}

	if len(summary.Topics) < 1 || len(summary.Topics) > cfg.TopicsCount {
		t.Fatalf("topic count = %d, want between 1 and %d", len(summary.Topics), cfg.TopicsCount)
	}
	t.Logf("extracted %d topics", len(summary.Topics))

	var shareSum float64
	for i, topic := range summary.Topics {
		if topic.ID != i {
			t.Errorf("topic %d has id %d, want ids renumbered in order", i, topic.ID)
		}
		if len(topic.Keywords) == 0 {
			t.Errorf("topic %q has no keywords", topic.Name)
		}
		if topic.Share < 0.02 || topic.Share > 1 {
			t.Errorf("topic %q share %f outside [0.02, 1]", topic.Name, topic.Share)
		}
		if i > 0 && summary.Topics[i-1].Share < topic.Share {
			t.Errorf("topics not sorted by descending share at %d", i)
		}
		trendSum := topic.Trend.Early + topic.Trend.Mid + topic.Trend.Late
		if trendSum < 0.99 || trendSum > 1.01 {
			t.Errorf("topic %q trend sums to %f", topic.Name, trendSum)
		}
		shareSum += topic.Share
		t.Logf("  topic %d: %s share=%.2f keywords=%v", topic.ID, topic.Name, topic.Share, topic.Keywords)
	}
	if shareSum > 1.0+1e-9 {
		t.Errorf("topic shares sum to %f, want <= 1.0", shareSum)
	}

	// Five disjoint subjects of forty records each resolve to five clusters
	// with share 0.2 regardless of seeding.
	if len(summary.Topics) != 5 {
		t.Errorf("disjoint subjects should produce 5 topics, got %d", len(summary.Topics))
	}
	for _, topic := range summary.Topics {
		if topic.Share < 0.199 || topic.Share > 0.201 {
			t.Errorf("topic %q share = %f, want 0.2", topic.Name, topic.Share)
		}
	}

	found := false
	for _, kw := range summary.Keywords.Unigrams {
		if kw.Term == "docker" {
			found = true
			if kw.Count != 40 {
				t.Errorf("docker count = %d, want 40", kw.Count)
			}
		}
	}
	if !found {
		t.Error("unigrams missing subject term docker")
	}
	for i := 1; i < len(summary.Keywords.Unigrams); i++ {
		if summary.Keywords.Unigrams[i-1].Count < summary.Keywords.Unigrams[i].Count {
			t.Fatalf("unigrams not sorted by descending count at %d", i)
		}
	}

	if len(summary.Samples.Questions) != 5 {
		t.Errorf("samples = %d, want the five deduplicated subject questions", len(summary.Samples.Questions))
	}
	for _, q := range summary.Samples.Questions {
		if !strings.HasSuffix(q, "?") {
			t.Errorf("sample %q should be a question", q)
		}
		if utf8.RuneCountInString(q) > cfg.MaxSampleLength {
			t.Errorf("sample %q exceeds max length", q)
		}
	}

	if len(summary.Notes) != 0 {
		t.Errorf("notes = %v, want none for a full year", summary.Notes)
	}
}

func TestGenerateSeededDeterminism(t *testing.T) {
	engine := New()
	cfg := DefaultConfig(2025)
	cfg.Seed = 7

	first, err := engine.Generate(cfg, subjectCorpus())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := engine.Generate(cfg, subjectCorpus())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !reflect.DeepEqual(first.Topics, second.Topics) {
		t.Errorf("seeded runs disagree on topics:\n%+v\n%+v", first.Topics, second.Topics)
	}
	if !reflect.DeepEqual(first.Keywords, second.Keywords) {
		t.Error("seeded runs disagree on keywords")
	}
	if !reflect.DeepEqual(first.Samples, second.Samples) {
		t.Error("seeded runs disagree on samples")
	}
	if first.Meta.ReportID == second.Meta.ReportID {
		t.Error("report IDs should be unique per run")
	}
}

func TestGenerateConfigValidation(t *testing.T) {
	engine := New()
	base := DefaultConfig(2025)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"year too early", func(c *Config) { c.Year = 1999 }},
		{"year too late", func(c *Config) { c.Year = 2101 }},
		{"unknown language", func(c *Config) { c.Language = "fr" }},
		{"empty language", func(c *Config) { c.Language = "" }},
		{"zero samples", func(c *Config) { c.MaxSamples = 0 }},
		{"too many samples", func(c *Config) { c.MaxSamples = 21 }},
		{"sample length too short", func(c *Config) { c.MaxSampleLength = 39 }},
		{"sample length too long", func(c *Config) { c.MaxSampleLength = 501 }},
		{"zero topics", func(c *Config) { c.TopicsCount = 0 }},
		{"too many topics", func(c *Config) { c.TopicsCount = 11 }},
		{"content length too short", func(c *Config) { c.MaxContentLength = 99 }},
		{"content length too long", func(c *Config) { c.MaxContentLength = 10001 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			summary, err := engine.Generate(cfg, nil)
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			if summary != nil {
				t.Fatal("invalid config must not produce a summary")
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if !strings.Contains(DefaultConfig(1900).Validate().Error(), "year") {
		t.Error("validation error should name the violated constraint")
	}
}

func TestGenerateNoData(t *testing.T) {
	engine := New()
	cfg := DefaultConfig(2025)

	records := []RawRecord{
		raw(time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC), "leftover from the prior year"),
	}

	summary, err := engine.Generate(cfg, records)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if summary.Stats.TotalQuestions != 0 {
		t.Errorf("totalQuestions = %d, want 0", summary.Stats.TotalQuestions)
	}

	foundNote := false
	for _, note := range summary.Notes {
		if strings.Contains(note, "no records found for 2025") {
			foundNote = true
		}
	}
	if !foundNote {
		t.Errorf("notes = %v, want a no-data note", summary.Notes)
	}
}

func TestGenerateYearFilter(t *testing.T) {
	engine := New()
	cfg := DefaultConfig(2025)

	records := []RawRecord{
		raw(time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC), "old year question about caching layers"),
		raw(time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC), "how should the cache eviction policy work?"),
		raw(time.Date(2026, time.January, 1, 1, 0, 0, 0, time.UTC), "future question about cache warming"),
	}

	summary, err := engine.Generate(cfg, records)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if summary.Stats.TotalQuestions != 1 {
		t.Errorf("totalQuestions = %d, want only the 2025 record", summary.Stats.TotalQuestions)
	}
	if summary.Stats.ActiveMonths != 1 {
		t.Errorf("activeMonths = %d, want 1", summary.Stats.ActiveMonths)
	}
}

func TestEngineAddStopwords(t *testing.T) {
	engine := New()
	engine.AddStopwords("jenkins")
	cfg := DefaultConfig(2025)

	records := []RawRecord{
		raw(time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC), "jenkins pipeline keeps failing on the deploy stage"),
		raw(time.Date(2025, time.May, 2, 9, 0, 0, 0, time.UTC), "jenkins agent ran out of disk space again"),
	}

	summary, err := engine.Generate(cfg, records)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, kw := range summary.Keywords.Unigrams {
		if kw.Term == "jenkins" {
			t.Error("extra stopword should be filtered from keywords")
		}
	}
}

func TestSummaryJSONShape(t *testing.T) {
	engine := New()
	cfg := DefaultConfig(2025)
	cfg.Workspace = "acme-api"

	summary, err := engine.Generate(cfg, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	encoded, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(encoded)

	if strings.Contains(body, "null") {
		t.Errorf("summary JSON should have no null collections: %s", body)
	}
	for _, key := range []string{
		`"reportId"`, `"generatedAt"`, `"workspace"`, `"totalQuestions"`,
		`"activeMonths"`, `"monthlyDistribution"`, `"lengthBuckets"`,
		`"unigrams"`, `"bigrams"`, `"topics"`, `"questions"`, `"maxLength"`,
		`"filters"`, `"guarantees"`, `"notes"`,
	} {
		if !strings.Contains(body, key) {
			t.Errorf("summary JSON missing %s: %s", key, body)
		}
	}
}
