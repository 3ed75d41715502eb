package catalog

import "testing"

func testCourses() []Course {
	return []Course{
		{Subject: "CS", Number: "18000", Title: "Problem Solving And Object-Oriented Programming"},
		{Subject: "CS", Number: "25100", Title: "Data Structures And Algorithms"},
		{Subject: "MA", Number: "26100", Title: "Multivariate Calculus"},
		{Subject: "MA", Number: "16100", Title: "Plane Analytic Geometry And Calculus I"},
	}
}

func TestTopK_RanksBestMatchFirst(t *testing.T) {
	idx := NewIndex(testCourses())

	got := idx.TopK("data structures", 3)
	if len(got) == 0 || got[0].Course.ID() != "CS-25100" {
		t.Fatalf("unexpected top result: %+v", got)
	}
	if got[0].Score <= 0 || got[0].Score > 1 {
		t.Fatalf("score out of range: %v", got[0].Score)
	}
}

func TestTopK_ShortNumberMatches(t *testing.T) {
	idx := NewIndex(testCourses())
	got := idx.TopK("cs 180", 1)
	if len(got) != 1 || got[0].Course.ID() != "CS-18000" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestTopK_CaseFoldAndTies(t *testing.T) {
	idx := NewIndex(testCourses())
	got := idx.TopK("CALCULUS", 5)
	if len(got) != 2 {
		t.Fatalf("want 2 calculus courses, got %+v", got)
	}
	// "Multivariate Calculus" has fewer tokens, so it scores higher
	if got[0].Course.ID() != "MA-26100" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestTopK_EmptyAndStopwords(t *testing.T) {
	idx := NewIndex(testCourses())
	if got := idx.TopK("   ", 5); got != nil {
		t.Fatalf("blank query should return nil, got %+v", got)
	}
	if got := idx.TopK("and of the", 5); got != nil {
		t.Fatalf("stopword-only query should return nil, got %+v", got)
	}
	if got := NewIndex(nil).TopK("cs", 5); got != nil {
		t.Fatalf("empty index should return nil, got %+v", got)
	}
}

func TestTopK_Options(t *testing.T) {
	idx := NewIndex(testCourses(), WithMinScore(0.5))
	if got := idx.TopK("calculus plane geometry analytic and i", 5); len(got) != 1 {
		t.Fatalf("min score should filter weak matches, got %+v", got)
	}

	idx = NewIndex(testCourses(), WithStopwords([]string{"data"}))
	if got := idx.TopK("data", 5); got != nil {
		t.Fatalf("custom stopword should be ignored, got %+v", got)
	}
}

func TestTopK_DefaultK(t *testing.T) {
	idx := NewIndex(testCourses())
	if got := idx.TopK("cs ma", 0); len(got) != 4 {
		t.Fatalf("k<=0 should default to 5, got %d", len(got))
	}
}
