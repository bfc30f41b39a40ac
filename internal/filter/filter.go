package filter

import "strings"

// AllTests is the sentinel value in a schedule's tests_to_be_run column
// meaning "every category registered for this client".
const AllTests = "all"

// Build produces the category-filter expression passed to the test runner.
//
// With no explicit categories (empty input or the "all" sentinel) the
// expression selects on the client category alone:
//
//	TestCategory=Acme
//
// With explicit categories the client term is ANDed with an OR-list of
// category terms:
//
//	(TestCategory=Acme) AND ( TestCategory=Smoke OR TestCategory=Regression )
//
// The output is always a well-formed boolean filter: a category list that
// cleans down to nothing takes the "all" path rather than emitting an empty
// OR-list.
func Build(clientName, testsToRun string) string {
	categories := splitCategories(testsToRun)
	if len(categories) == 0 {
		return "TestCategory=" + clientName
	}

	terms := make([]string, len(categories))
	for i, c := range categories {
		terms[i] = "TestCategory=" + c
	}

	return "(TestCategory=" + clientName + ") AND ( " + strings.Join(terms, " OR ") + " )"
}

// splitCategories returns the cleaned category list, or nil when the input
// means "all categories".
func splitCategories(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, AllTests) {
		return nil
	}

	var categories []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			categories = append(categories, tok)
		}
	}
	return categories
}
