package summary

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/textuml/pkg/model"
)

func TestSummarize(t *testing.T) {
	d := &model.Diagram{
		Classes: []string{"Student", "Course"},
		Attributes: map[string][]string{
			"Student": {"name", "id", "email", "phone", "address", "birthday", "major"},
			"Course":  {"title"},
		},
		Relationships: []model.Relationship{
			{Source: "Student", Target: "Course", Kind: model.KindAssociation},
			{Source: "Student", Target: "Ghost", Kind: model.KindUsage},
		},
	}

	want := Summary{
		EntityCount:         2,
		TotalAttributeCount: 8,
		RelationshipCount:   2,
		PerEntity: []EntityCount{
			{Name: "Student", Attributes: 7},
			{Name: "Course", Attributes: 1},
		},
	}
	if diff := cmp.Diff(want, Summarize(d)); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	for _, d := range []*model.Diagram{nil, {}} {
		s := Summarize(d)
		if s.EntityCount != 0 || s.TotalAttributeCount != 0 || s.RelationshipCount != 0 || len(s.PerEntity) != 0 {
			t.Errorf("Summarize(%v) = %+v", d, s)
		}
	}
}

func TestFormat(t *testing.T) {
	s := Summary{
		EntityCount:         1,
		TotalAttributeCount: 2,
		RelationshipCount:   0,
		PerEntity:           []EntityCount{{Name: "Book", Attributes: 2}},
	}
	want := "1 class, 2 attributes, 0 relationships\n  Book: 2 attributes\n"
	if got := Format(s); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		n    int
		word string
		want string
	}{
		{1, "class", "1 class"},
		{2, "class", "2 classes"},
		{0, "attribute", "0 attributes"},
		{3, "relationship", "3 relationships"},
	}
	for _, tt := range tests {
		if got := Count(tt.n, tt.word); got != tt.want {
			t.Errorf("Count(%d, %q) = %q, want %q", tt.n, tt.word, got, tt.want)
		}
	}
}
