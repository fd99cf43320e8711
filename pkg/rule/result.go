package rule

// Result is the outcome of verifying one rule: either [Passed] or [Failed].
type Result interface {
	// Name returns the rule that produced the result.
	Name() Name

	// Description returns the rule's description.
	Description() string

	// Passed reports whether the rule passed.
	Passed() bool

	result()
}

// Passed is the result of a rule that found nothing wrong.
type Passed struct {
	RuleName        Name
	RuleDescription string
}

// Failed is the result of a rule that found one or more violations.
type Failed struct {
	RuleName        Name
	RuleDescription string
	Failures        []Failure
}

// Failure is one violation found by a rule.
type Failure struct {
	Message string

	// Details carries structured context, typically "entryPath" naming the
	// offending file relative to the repository root.
	Details map[string]any
}

// EntryPath returns the "entryPath" detail, or "" if there is none.
func (f Failure) EntryPath() string {
	s, _ := f.Details["entryPath"].(string)
	return s
}

func (r Passed) Name() Name          { return r.RuleName }
func (r Passed) Description() string { return r.RuleDescription }
func (Passed) Passed() bool          { return true }
func (Passed) result()               {}

func (r Failed) Name() Name          { return r.RuleName }
func (r Failed) Description() string { return r.RuleDescription }
func (Failed) Passed() bool          { return false }
func (Failed) result()               {}
